package store

// Prescription is one stored (user_id, symptoms, diagnosis) row. The schema
// leaves user_id as free text.
type Prescription struct {
	UserID    string `db:"user_id" json:"user_id"`
	Symptoms  string `db:"symptoms" json:"symptoms"`
	Diagnosis string `db:"diagnosis" json:"diagnosis"`
}
