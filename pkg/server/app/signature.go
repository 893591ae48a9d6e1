/* Copyright 2025 Replog Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Content signatures identify routines, sessions and bodyweight entries
// during import by what they contain rather than by source ids. The
// encoding is canonical: keys sorted, numbers in a fixed decimal form,
// strings NFC-normalized and timestamps as Unix milliseconds, so two
// encodings of the same content always produce the same signature no
// matter which client serialized them. Signatures are computed on the
// fly and never persisted.

// sigDoc is one node in a canonical signature document
type sigDoc map[string]interface{}

func (d sigDoc) encode(sb *strings.Builder) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteByte(':')
		encodeSigValue(sb, d[k])
	}
	sb.WriteByte('}')
}

func encodeSigValue(sb *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	case int:
		sb.WriteString(strconv.Itoa(val))
	case int64:
		sb.WriteString(strconv.FormatInt(val, 10))
	case float64:
		// The shortest decimal form, so 100 and 100.0 encode identically
		sb.WriteString(strconv.FormatFloat(val, 'f', -1, 64))
	case string:
		sb.WriteString(strconv.Quote(norm.NFC.String(val)))
	case time.Time:
		sb.WriteString(strconv.FormatInt(val.UnixMilli(), 10))
	case *time.Time:
		if val == nil {
			sb.WriteString("null")
		} else {
			sb.WriteString(strconv.FormatInt(val.UnixMilli(), 10))
		}
	case []sigDoc:
		sb.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.encode(sb)
		}
		sb.WriteByte(']')
	case sigDoc:
		val.encode(sb)
	default:
		// Signature documents are built by this package only, so an
		// unhandled type is a programming error
		panic(fmt.Sprintf("unencodable signature value of type %T", v))
	}
}

// signatureOf hashes the canonical encoding of the given document
func signatureOf(doc sigDoc) string {
	var sb strings.Builder
	doc.encode(&sb)

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// exerciseKey is the canonical identity of an exercise name. Exercises
// match case-insensitively, so the key folds case on top of NFC.
func exerciseKey(name string) string {
	return strings.ToLower(norm.NFC.String(name))
}

func routineSlotSigDoc(exerciseName string, position int, equipment string, targetSets, targetReps int, targetWeight float64) sigDoc {
	return sigDoc{
		"exercise":     exerciseKey(exerciseName),
		"position":     position,
		"equipment":    equipment,
		"targetSets":   targetSets,
		"targetReps":   targetReps,
		"targetWeight": targetWeight,
	}
}

// routineSignature is the content identity of a routine: name, notes and
// the ordered slots with their exercises resolved to names. Names stand
// in for ids so that signatures agree across accounts and across the
// import boundary.
func routineSignature(name, notes string, slots []sigDoc) string {
	return signatureOf(sigDoc{
		"name":      name,
		"notes":     notes,
		"exercises": slots,
	})
}

func setSigDoc(exerciseName string, setIndex, reps int, weight float64, band string, completedAt time.Time) sigDoc {
	return sigDoc{
		"exercise":    exerciseKey(exerciseName),
		"setIndex":    setIndex,
		"reps":        reps,
		"weight":      weight,
		"band":        band,
		"completedAt": completedAt,
	}
}

func progressSigDoc(exerciseName string, position int, status string, startedAt, completedAt *time.Time) sigDoc {
	return sigDoc{
		"exercise":    exerciseKey(exerciseName),
		"position":    position,
		"status":      status,
		"startedAt":   startedAt,
		"completedAt": completedAt,
	}
}

// sessionSignature is the content identity of a workout session. The
// routine is identified by its own signature rather than an id; ad hoc
// sessions use an empty string. Callers pass sets and progress entries
// already sorted canonically.
func sessionSignature(routineSig, name, notes string, warmupStartedAt, startedAt, endedAt *time.Time, sets, progress []sigDoc) string {
	return signatureOf(sigDoc{
		"routine":         routineSig,
		"name":            name,
		"notes":           notes,
		"warmupStartedAt": warmupStartedAt,
		"startedAt":       startedAt,
		"endedAt":         endedAt,
		"sets":            sets,
		"progress":        progress,
	})
}

func weightSignature(weight float64, measuredAt time.Time, notes string) string {
	return signatureOf(sigDoc{
		"weight":     weight,
		"measuredAt": measuredAt,
		"notes":      notes,
	})
}
