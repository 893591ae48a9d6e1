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

package database

const (
	// TokenTypeResetPassword is a type of a token for reseting password
	TokenTypeResetPassword = "reset_password"
)

// Equipment kinds for a routine exercise slot
const (
	EquipmentBarbell    = "barbell"
	EquipmentDumbbell   = "dumbbell"
	EquipmentMachine    = "machine"
	EquipmentCable      = "cable"
	EquipmentKettlebell = "kettlebell"
	EquipmentBand       = "band"
	EquipmentBodyweight = "bodyweight"
)

// Statuses for a session exercise progress slot
const (
	// ProgressStatusPending indicates that the slot has not been started
	ProgressStatusPending = "pending"
	// ProgressStatusInProgress indicates that the slot has at least one set
	// or an explicit start
	ProgressStatusInProgress = "in_progress"
	// ProgressStatusCompleted indicates that the slot reached its target
	// or was explicitly completed
	ProgressStatusCompleted = "completed"
)

// ValidEquipment returns true if the given string is a known equipment kind
func ValidEquipment(equipment string) bool {
	switch equipment {
	case EquipmentBarbell, EquipmentDumbbell, EquipmentMachine, EquipmentCable,
		EquipmentKettlebell, EquipmentBand, EquipmentBodyweight:
		return true
	}

	return false
}

// ValidProgressStatus returns true if the given string is a known progress status
func ValidProgressStatus(status string) bool {
	switch status {
	case ProgressStatusPending, ProgressStatusInProgress, ProgressStatusCompleted:
		return true
	}

	return false
}

// IsWeightedEquipment returns true if the given equipment kind carries a
// numeric target weight
func IsWeightedEquipment(equipment string) bool {
	switch equipment {
	case EquipmentBarbell, EquipmentDumbbell, EquipmentMachine, EquipmentCable,
		EquipmentKettlebell:
		return true
	}

	return false
}
