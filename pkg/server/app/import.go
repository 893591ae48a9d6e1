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
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/replog/replog/pkg/server/database"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrImportInvalid is an error for applying an export document that fails validation
var ErrImportInvalid = errors.New("import document is invalid")

// Accepted export document versions. Versions 1 through 3 share the same
// shape; the bound exists to refuse documents from a future format.
const (
	importMinVersion = 1
	importMaxVersion = 3
)

// ExportDocument is a versioned export of an account's workout data. The
// record ids inside are source ids: they are only meaningful for
// references within the document and never carry over to the target
// account.
type ExportDocument struct {
	Version   int              `json:"version"`
	Exercises []ExportExercise `json:"exercises"`
	Routines  []ExportRoutine  `json:"routines"`
	Sessions  []ExportSession  `json:"sessions"`
	Weights   []ExportWeight   `json:"weights"`
}

// ExportExercise is an exercise in an export document
type ExportExercise struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ExportRoutineExercise is an exercise slot within an exported routine
type ExportRoutineExercise struct {
	ExerciseID   int     `json:"exerciseId"`
	Position     int     `json:"position"`
	Equipment    string  `json:"equipment"`
	TargetSets   int     `json:"targetSets"`
	TargetReps   int     `json:"targetReps"`
	TargetWeight float64 `json:"targetWeight"`
}

// ExportRoutine is a routine in an export document
type ExportRoutine struct {
	ID        int                     `json:"id"`
	Name      string                  `json:"name"`
	Notes     string                  `json:"notes"`
	Exercises []ExportRoutineExercise `json:"exercises"`
}

// ExportSet is a logged set within an exported session
type ExportSet struct {
	ExerciseID  int       `json:"exerciseId"`
	SetIndex    int       `json:"setIndex"`
	Reps        int       `json:"reps"`
	Weight      float64   `json:"weight"`
	Band        string    `json:"band,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

// ExportProgress is a progress slot within an exported session
type ExportProgress struct {
	ExerciseID  int        `json:"exerciseId"`
	Position    int        `json:"position"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ExportSession is a workout session in an export document. RoutineID is
// zero for ad hoc sessions.
type ExportSession struct {
	RoutineID       int              `json:"routineId"`
	Name            string           `json:"name"`
	Notes           string           `json:"notes,omitempty"`
	WarmupStartedAt *time.Time       `json:"warmupStartedAt,omitempty"`
	StartedAt       *time.Time       `json:"startedAt,omitempty"`
	EndedAt         *time.Time       `json:"endedAt,omitempty"`
	Sets            []ExportSet      `json:"sets"`
	Progress        []ExportProgress `json:"progress"`
}

// ExportWeight is a bodyweight entry in an export document
type ExportWeight struct {
	Weight     float64   `json:"weight"`
	MeasuredAt time.Time `json:"measuredAt"`
	Notes      string    `json:"notes,omitempty"`
}

// ParseExportDocument decodes an export document
func ParseExportDocument(data []byte) (ExportDocument, error) {
	var doc ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ExportDocument{}, pkgErrors.Wrap(err, "parsing export document")
	}

	return doc, nil
}

// ImportCategoryReport tallies what an import would do to one category
type ImportCategoryReport struct {
	ToCreate int `json:"toCreate"`
	ToReuse  int `json:"toReuse"`
	Skipped  int `json:"skipped"`
}

// ImportValidation is the report for an export document resolved against
// the account's existing data, produced before any write
type ImportValidation struct {
	Valid     bool                 `json:"valid"`
	Version   int                  `json:"version"`
	Exercises ImportCategoryReport `json:"exercises"`
	Routines  ImportCategoryReport `json:"routines"`
	Sessions  ImportCategoryReport `json:"sessions"`
	Weights   ImportCategoryReport `json:"weights"`
	Warnings  []string             `json:"warnings"`
}

// ImportResult reports what an applied import created
type ImportResult struct {
	ExercisesCreated int `json:"exercisesCreated"`
	RoutinesCreated  int `json:"routinesCreated"`
	SessionsCreated  int `json:"sessionsCreated"`
	WeightsCreated   int `json:"weightsCreated"`
}

// ValidateImport resolves the export document against the user's existing
// data and reports what an apply would do, without writing anything
func (a *App) ValidateImport(user database.User, doc ExportDocument) (ImportValidation, error) {
	plan, err := planImport(a.DB, user, doc)
	if err != nil {
		return ImportValidation{}, err
	}

	return plan.validation(), nil
}

// ApplyImport applies the export document in a single transaction. Unlike
// the per-operation sync path this is all or nothing: any failure rolls
// back the entire import. The plan is recomputed inside the transaction so
// that the decisions and the writes see the same data.
func (a *App) ApplyImport(user database.User, doc ExportDocument) (ImportResult, error) {
	tx := a.DB.Begin()

	plan, err := planImport(tx, user, doc)
	if err != nil {
		tx.Rollback()
		return ImportResult{}, err
	}
	if !plan.valid {
		tx.Rollback()
		return ImportResult{}, ErrImportInvalid
	}

	result, err := executeImport(tx, user.ID, plan)
	if err != nil {
		tx.Rollback()
		return ImportResult{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return ImportResult{}, pkgErrors.Wrap(err, "committing transaction")
	}

	return result, nil
}

// exercisePlan resolves one distinct exercise name in the document.
// Document entries that share a name share one plan entry.
type exercisePlan struct {
	name     string
	targetID int
}

type routineSlotPlan struct {
	exerciseSourceID int
	position         int
	equipment        string
	targetSets       int
	targetReps       int
	targetWeight     float64
}

// routinePlan resolves one distinct routine in the document. Entries
// with identical signatures share one plan entry.
type routinePlan struct {
	name     string
	notes    string
	slots    []routineSlotPlan
	sig      string
	targetID int
}

// importPlan is the resolved fate of every entry in an export document.
// Validation reports it; apply executes it.
type importPlan struct {
	version  int
	valid    bool
	warnings []string

	exerciseCounts ImportCategoryReport
	routineCounts  ImportCategoryReport
	sessionCounts  ImportCategoryReport
	weightCounts   ImportCategoryReport

	exerciseByID map[int]*exercisePlan
	routineByID  map[int]*routinePlan

	createExercises []*exercisePlan
	createRoutines  []*routinePlan
	createSessions  []ExportSession
	createWeights   []ExportWeight
}

func (p *importPlan) warn(format string, args ...interface{}) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *importPlan) validation() ImportValidation {
	return ImportValidation{
		Valid:     p.valid,
		Version:   p.version,
		Exercises: p.exerciseCounts,
		Routines:  p.routineCounts,
		Sessions:  p.sessionCounts,
		Weights:   p.weightCounts,
		Warnings:  p.warnings,
	}
}

func planImport(db *gorm.DB, user database.User, doc ExportDocument) (*importPlan, error) {
	plan := &importPlan{
		version:      doc.Version,
		warnings:     []string{},
		exerciseByID: map[int]*exercisePlan{},
		routineByID:  map[int]*routinePlan{},
	}

	if doc.Version < importMinVersion || doc.Version > importMaxVersion {
		plan.warn("unsupported version %d", doc.Version)
		return plan, nil
	}
	plan.valid = true

	exerciseNames, err := loadExerciseNames(db, user.ID)
	if err != nil {
		return nil, err
	}
	keyToID := make(map[string]int, len(exerciseNames))
	for id, name := range exerciseNames {
		keyToID[exerciseKey(name)] = id
	}
	plan.planExercises(doc.Exercises, keyToID)

	routineSigs, routineSigByID, err := loadRoutineSignatures(db, user.ID, exerciseNames)
	if err != nil {
		return nil, err
	}
	plan.planRoutines(doc.Routines, routineSigs)

	sessionSigs, err := loadSessionSignatures(db, user.ID, exerciseNames, routineSigByID)
	if err != nil {
		return nil, err
	}
	plan.planSessions(doc.Sessions, sessionSigs)

	weightSigs, err := loadWeightSignatures(db, user.ID)
	if err != nil {
		return nil, err
	}
	plan.planWeights(doc.Weights, weightSigs)

	return plan, nil
}

func (p *importPlan) planExercises(exercises []ExportExercise, keyToID map[string]int) {
	seenKeys := map[string]*exercisePlan{}

	for i, e := range exercises {
		if e.Name == "" {
			p.warn("exercise %d has an empty name", i+1)
			p.exerciseCounts.Skipped++
			continue
		}
		if _, ok := p.exerciseByID[e.ID]; ok {
			p.warn("duplicate exercise id %d", e.ID)
			p.exerciseCounts.Skipped++
			continue
		}

		key := exerciseKey(e.Name)
		if prev, ok := seenKeys[key]; ok {
			p.exerciseByID[e.ID] = prev
			p.exerciseCounts.ToReuse++
			continue
		}

		entry := &exercisePlan{name: e.Name}
		if id, ok := keyToID[key]; ok {
			entry.targetID = id
			p.exerciseCounts.ToReuse++
		} else {
			p.exerciseCounts.ToCreate++
			p.createExercises = append(p.createExercises, entry)
		}
		p.exerciseByID[e.ID] = entry
		seenKeys[key] = entry
	}
}

func (p *importPlan) planRoutines(routines []ExportRoutine, existingSigs map[string]int) {
	seenSigs := map[string]*routinePlan{}

	for _, r := range routines {
		if _, ok := p.routineByID[r.ID]; ok {
			p.warn("duplicate routine id %d", r.ID)
			p.routineCounts.Skipped++
			continue
		}

		slots, ok := p.resolveRoutineSlots(r)
		if !ok {
			p.routineCounts.Skipped++
			continue
		}

		slotDocs := make([]sigDoc, 0, len(slots))
		for _, s := range slots {
			slotDocs = append(slotDocs, routineSlotSigDoc(p.exerciseByID[s.exerciseSourceID].name, s.position, s.equipment, s.targetSets, s.targetReps, s.targetWeight))
		}
		sig := routineSignature(r.Name, r.Notes, slotDocs)

		if prev, ok := seenSigs[sig]; ok {
			p.routineByID[r.ID] = prev
			p.routineCounts.ToReuse++
			continue
		}

		entry := &routinePlan{name: r.Name, notes: r.Notes, slots: slots, sig: sig}
		if id, ok := existingSigs[sig]; ok {
			entry.targetID = id
			p.routineCounts.ToReuse++
		} else {
			p.routineCounts.ToCreate++
			p.createRoutines = append(p.createRoutines, entry)
		}
		p.routineByID[r.ID] = entry
		seenSigs[sig] = entry
	}
}

func (p *importPlan) resolveRoutineSlots(r ExportRoutine) ([]routineSlotPlan, bool) {
	slots := make([]routineSlotPlan, 0, len(r.Exercises))

	for _, s := range r.Exercises {
		if _, ok := p.exerciseByID[s.ExerciseID]; !ok {
			p.warn("routine %q references unknown exercise %d", r.Name, s.ExerciseID)
			return nil, false
		}
		if !database.ValidEquipment(s.Equipment) {
			p.warn("routine %q has unknown equipment %q", r.Name, s.Equipment)
			return nil, false
		}

		slots = append(slots, routineSlotPlan{
			exerciseSourceID: s.ExerciseID,
			position:         s.Position,
			equipment:        s.Equipment,
			targetSets:       s.TargetSets,
			targetReps:       s.TargetReps,
			targetWeight:     s.TargetWeight,
		})
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].position < slots[j].position })

	return slots, true
}

func (p *importPlan) planSessions(sessions []ExportSession, existingSigs map[string]bool) {
	seenSigs := map[string]bool{}

	for i, s := range sessions {
		sig, ok := p.sessionSig(i, s)
		if !ok {
			p.sessionCounts.Skipped++
			continue
		}

		if existingSigs[sig] || seenSigs[sig] {
			seenSigs[sig] = true
			p.sessionCounts.ToReuse++
			continue
		}

		seenSigs[sig] = true
		p.sessionCounts.ToCreate++
		p.createSessions = append(p.createSessions, s)
	}
}

func (p *importPlan) sessionSig(idx int, s ExportSession) (string, bool) {
	routineSig := ""
	if s.RoutineID != 0 {
		rp, ok := p.routineByID[s.RoutineID]
		if !ok {
			p.warn("session %d references unknown routine %d", idx+1, s.RoutineID)
			return "", false
		}
		routineSig = rp.sig
	}

	type namedSet struct {
		set  ExportSet
		name string
	}
	namedSets := make([]namedSet, 0, len(s.Sets))
	for _, set := range s.Sets {
		ep, ok := p.exerciseByID[set.ExerciseID]
		if !ok {
			p.warn("session %d references unknown exercise %d", idx+1, set.ExerciseID)
			return "", false
		}
		namedSets = append(namedSets, namedSet{set: set, name: ep.name})
	}
	sortSets := func(i, j int) bool {
		ki, kj := exerciseKey(namedSets[i].name), exerciseKey(namedSets[j].name)
		if ki != kj {
			return ki < kj
		}
		return namedSets[i].set.SetIndex < namedSets[j].set.SetIndex
	}
	sort.Slice(namedSets, sortSets)

	setDocs := make([]sigDoc, 0, len(namedSets))
	for _, ns := range namedSets {
		setDocs = append(setDocs, setSigDoc(ns.name, ns.set.SetIndex, ns.set.Reps, ns.set.Weight, ns.set.Band, ns.set.CompletedAt))
	}

	progress := make([]ExportProgress, len(s.Progress))
	copy(progress, s.Progress)
	sort.Slice(progress, func(i, j int) bool { return progress[i].Position < progress[j].Position })

	progressDocs := make([]sigDoc, 0, len(progress))
	for _, pr := range progress {
		ep, ok := p.exerciseByID[pr.ExerciseID]
		if !ok {
			p.warn("session %d references unknown exercise %d", idx+1, pr.ExerciseID)
			return "", false
		}
		if !database.ValidProgressStatus(pr.Status) {
			p.warn("session %d has unknown progress status %q", idx+1, pr.Status)
			return "", false
		}
		progressDocs = append(progressDocs, progressSigDoc(ep.name, pr.Position, pr.Status, pr.StartedAt, pr.CompletedAt))
	}

	return sessionSignature(routineSig, s.Name, s.Notes, s.WarmupStartedAt, s.StartedAt, s.EndedAt, setDocs, progressDocs), true
}

func (p *importPlan) planWeights(weights []ExportWeight, existingSigs map[string]bool) {
	seenSigs := map[string]bool{}

	for i, w := range weights {
		if w.Weight <= 0 {
			p.warn("bodyweight entry %d has a non-positive weight", i+1)
			p.weightCounts.Skipped++
			continue
		}

		sig := weightSignature(w.Weight, w.MeasuredAt, w.Notes)
		if existingSigs[sig] || seenSigs[sig] {
			seenSigs[sig] = true
			p.weightCounts.ToReuse++
			continue
		}

		seenSigs[sig] = true
		p.weightCounts.ToCreate++
		p.createWeights = append(p.createWeights, w)
	}
}

// executeImport writes the plan's create lists. Creating an exercise or a
// routine fills in its plan entry's target id, which later categories
// resolve references through.
func executeImport(tx *gorm.DB, userID int, plan *importPlan) (ImportResult, error) {
	var result ImportResult

	for _, ep := range plan.createExercises {
		exercise := database.Exercise{UserID: userID, Name: ep.name}
		if err := tx.Create(&exercise).Error; err != nil {
			return ImportResult{}, pkgErrors.Wrap(err, "creating exercise")
		}
		ep.targetID = exercise.ID
		result.ExercisesCreated++
	}

	for _, rp := range plan.createRoutines {
		routine := database.Routine{UserID: userID, Name: rp.name, Notes: rp.notes}
		if err := tx.Create(&routine).Error; err != nil {
			return ImportResult{}, pkgErrors.Wrap(err, "creating routine")
		}
		rp.targetID = routine.ID

		for _, slot := range rp.slots {
			routineExercise := database.RoutineExercise{
				RoutineID:    routine.ID,
				ExerciseID:   plan.exerciseByID[slot.exerciseSourceID].targetID,
				Position:     slot.position,
				Equipment:    slot.equipment,
				TargetSets:   slot.targetSets,
				TargetReps:   slot.targetReps,
				TargetWeight: slot.targetWeight,
			}
			if err := tx.Create(&routineExercise).Error; err != nil {
				return ImportResult{}, pkgErrors.Wrap(err, "creating routine exercise")
			}
		}
		result.RoutinesCreated++
	}

	for _, s := range plan.createSessions {
		routineID := 0
		if s.RoutineID != 0 {
			routineID = plan.routineByID[s.RoutineID].targetID
		}

		session := database.WorkoutSession{
			UserID:          userID,
			RoutineID:       routineID,
			Name:            s.Name,
			Notes:           s.Notes,
			WarmupStartedAt: s.WarmupStartedAt,
			StartedAt:       s.StartedAt,
			EndedAt:         s.EndedAt,
		}
		if err := tx.Create(&session).Error; err != nil {
			return ImportResult{}, pkgErrors.Wrap(err, "creating workout session")
		}

		for _, set := range s.Sets {
			sessionSet := database.SessionSet{
				UserID:      userID,
				SessionID:   session.ID,
				ExerciseID:  plan.exerciseByID[set.ExerciseID].targetID,
				SetIndex:    set.SetIndex,
				Reps:        set.Reps,
				Weight:      set.Weight,
				Band:        set.Band,
				CompletedAt: set.CompletedAt,
			}
			if err := tx.Create(&sessionSet).Error; err != nil {
				return ImportResult{}, pkgErrors.Wrap(err, "creating session set")
			}
		}

		for _, pr := range s.Progress {
			progress := database.SessionExerciseProgress{
				SessionID:   session.ID,
				ExerciseID:  plan.exerciseByID[pr.ExerciseID].targetID,
				Position:    pr.Position,
				Status:      pr.Status,
				StartedAt:   pr.StartedAt,
				CompletedAt: pr.CompletedAt,
			}
			if err := tx.Create(&progress).Error; err != nil {
				return ImportResult{}, pkgErrors.Wrap(err, "creating session progress")
			}
		}
		result.SessionsCreated++
	}

	for _, w := range plan.createWeights {
		entry := database.BodyweightEntry{
			UserID:     userID,
			Weight:     w.Weight,
			MeasuredAt: w.MeasuredAt,
			Notes:      w.Notes,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return ImportResult{}, pkgErrors.Wrap(err, "creating bodyweight entry")
		}
		result.WeightsCreated++
	}

	return result, nil
}

func loadExerciseNames(db *gorm.DB, userID int) (map[int]string, error) {
	var exercises []database.Exercise
	if err := db.Where("user_id = ?", userID).Find(&exercises).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "listing exercises")
	}

	names := make(map[int]string, len(exercises))
	for _, e := range exercises {
		names[e.ID] = e.Name
	}

	return names, nil
}

// loadRoutineSignatures computes the signature of every routine the user
// owns. It returns signature to routine id for matching, and routine id to
// signature for building session signatures.
func loadRoutineSignatures(db *gorm.DB, userID int, exerciseNames map[int]string) (map[string]int, map[int]string, error) {
	var routines []database.Routine
	if err := db.Where("user_id = ?", userID).Find(&routines).Error; err != nil {
		return nil, nil, pkgErrors.Wrap(err, "listing routines")
	}

	sigToID := make(map[string]int, len(routines))
	sigByID := make(map[int]string, len(routines))

	for _, r := range routines {
		var slots []database.RoutineExercise
		if err := db.Where("routine_id = ?", r.ID).Order("position ASC").Find(&slots).Error; err != nil {
			return nil, nil, pkgErrors.Wrap(err, "listing routine exercises")
		}

		slotDocs := make([]sigDoc, 0, len(slots))
		for _, s := range slots {
			slotDocs = append(slotDocs, routineSlotSigDoc(exerciseNames[s.ExerciseID], s.Position, s.Equipment, s.TargetSets, s.TargetReps, s.TargetWeight))
		}

		sig := routineSignature(r.Name, r.Notes, slotDocs)
		sigToID[sig] = r.ID
		sigByID[r.ID] = sig
	}

	return sigToID, sigByID, nil
}

func loadSessionSignatures(db *gorm.DB, userID int, exerciseNames map[int]string, routineSigByID map[int]string) (map[string]bool, error) {
	var sessions []database.WorkoutSession
	if err := db.Where("user_id = ?", userID).Find(&sessions).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "listing workout sessions")
	}

	sigs := make(map[string]bool, len(sessions))

	for _, session := range sessions {
		var sets []database.SessionSet
		if err := db.Where("session_id = ?", session.ID).Find(&sets).Error; err != nil {
			return nil, pkgErrors.Wrap(err, "listing session sets")
		}
		sort.Slice(sets, func(i, j int) bool {
			ki, kj := exerciseKey(exerciseNames[sets[i].ExerciseID]), exerciseKey(exerciseNames[sets[j].ExerciseID])
			if ki != kj {
				return ki < kj
			}
			return sets[i].SetIndex < sets[j].SetIndex
		})
		setDocs := make([]sigDoc, 0, len(sets))
		for _, s := range sets {
			setDocs = append(setDocs, setSigDoc(exerciseNames[s.ExerciseID], s.SetIndex, s.Reps, s.Weight, s.Band, s.CompletedAt))
		}

		var progress []database.SessionExerciseProgress
		if err := db.Where("session_id = ?", session.ID).Order("position ASC").Find(&progress).Error; err != nil {
			return nil, pkgErrors.Wrap(err, "listing session progress")
		}
		progressDocs := make([]sigDoc, 0, len(progress))
		for _, pr := range progress {
			progressDocs = append(progressDocs, progressSigDoc(exerciseNames[pr.ExerciseID], pr.Position, pr.Status, pr.StartedAt, pr.CompletedAt))
		}

		sig := sessionSignature(routineSigByID[session.RoutineID], session.Name, session.Notes, session.WarmupStartedAt, session.StartedAt, session.EndedAt, setDocs, progressDocs)
		sigs[sig] = true
	}

	return sigs, nil
}

func loadWeightSignatures(db *gorm.DB, userID int) (map[string]bool, error) {
	var entries []database.BodyweightEntry
	if err := db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "listing bodyweight entries")
	}

	sigs := make(map[string]bool, len(entries))
	for _, e := range entries {
		sigs[weightSignature(e.Weight, e.MeasuredAt, e.Notes)] = true
	}

	return sigs, nil
}
