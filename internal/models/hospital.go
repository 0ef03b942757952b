package models

// HospitalInfo is an AI-generated nearby facility. Ephemeral: regenerated per
// lookup from coordinates, never persisted.
type HospitalInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
}
