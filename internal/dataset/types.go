package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/tyyim/esg-reason-sub000/internal/answer"
)

// Question is one labeled benchmark record. Questions are loaded once per
// run and never mutated.
type Question struct {
	ID          string
	Text        string
	DocID       string
	Format      answer.Format
	GroundTruth string

	// GroundTruthList holds the parsed elements for List-format questions.
	GroundTruthList []string

	// Evidence is opaque source metadata, passed through untouched.
	Evidence json.RawMessage
}

// DeriveID computes the stable question identifier from the question text
// and document id. Records without an explicit id get this hash, so the
// same dataset always maps to the same checkpoint keys.
func DeriveID(docID, question string) string {
	h := sha256.Sum256([]byte(docID + "\n" + question))
	return hex.EncodeToString(h[:])[:12]
}
