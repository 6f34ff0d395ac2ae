package documents

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pluqqy/tabpad/pkg/models"
)

// SnapshotVersion is the version written into every persisted envelope
const SnapshotVersion = 1

// Snapshot is the persisted layout of a document set
type Snapshot struct {
	Version   int               `json:"version"`
	Documents []models.Document `json:"documents"`
	ActiveID  string            `json:"activeId,omitempty"`
}

// Encode serializes docs and the active id into a versioned envelope
func Encode(docs []models.Document, activeID string) ([]byte, error) {
	snap := Snapshot{
		Version:   SnapshotVersion,
		Documents: make([]models.Document, 0, len(docs)),
		ActiveID:  activeID,
	}
	for _, doc := range docs {
		snap.Documents = append(snap.Documents, normalize(doc))
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document set: %w", err)
	}
	return data, nil
}

// Decode restores a document set. It accepts the versioned envelope and the
// legacy bare array of documents. The returned active id always references a
// returned document, or is empty when there are none.
func Decode(data []byte) ([]models.Document, string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, "", fmt.Errorf("%w: empty blob", ErrMalformedState)
	}

	var snap Snapshot
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &snap.Documents); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
	case '{':
		var envelope struct {
			Version   int                `json:"version"`
			Documents *[]models.Document `json:"documents"`
			ActiveID  string             `json:"activeId"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
		if envelope.Version != SnapshotVersion {
			return nil, "", fmt.Errorf("%w: unsupported version %d", ErrMalformedState, envelope.Version)
		}
		if envelope.Documents == nil {
			return nil, "", fmt.Errorf("%w: missing documents", ErrMalformedState)
		}
		snap = Snapshot{Version: envelope.Version, Documents: *envelope.Documents, ActiveID: envelope.ActiveID}
	default:
		return nil, "", fmt.Errorf("%w: expected a JSON object or array", ErrMalformedState)
	}

	seen := make(map[string]bool, len(snap.Documents))
	docs := make([]models.Document, 0, len(snap.Documents))
	for i, doc := range snap.Documents {
		if doc.ID == "" {
			return nil, "", fmt.Errorf("%w: document %d has no id", ErrMalformedState, i)
		}
		if seen[doc.ID] {
			return nil, "", fmt.Errorf("%w: duplicate id %s", ErrMalformedState, doc.ID)
		}
		seen[doc.ID] = true
		docs = append(docs, normalize(doc))
	}

	activeID := snap.ActiveID
	if !seen[activeID] {
		activeID = ""
		if len(docs) > 0 {
			activeID = docs[0].ID
		}
	}

	return docs, activeID, nil
}

func normalize(doc models.Document) models.Document {
	if !doc.Language.Valid() {
		doc.Language = models.LanguageText
	}
	if doc.History == nil {
		doc.History = []string{}
	}
	if doc.Future == nil {
		doc.Future = []string{}
	}
	return doc
}
