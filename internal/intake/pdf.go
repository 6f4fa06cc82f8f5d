package intake

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"
)

// ImportPDF extracts the plain text of a PDF intake form and stores it as
// the entity's answer to the given question. Therapist onboarding often
// arrives as a filled-in form document; the matcher's normalizer handles
// the noisy extraction output downstream.
func (im *Importer) ImportPDF(path, entityID string, questionID int) error {
	text, err := extractPDFText(path)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", path, err)
	}
	if text == "" {
		return fmt.Errorf("%s: no extractable text", path)
	}

	if err := im.store.UpsertAnswer(entityID, questionID, text); err != nil {
		return fmt.Errorf("saving extracted answer: %w", err)
	}

	slog.Info("imported PDF intake form", "path", path, "entity", entityID, "question", questionID, "chars", len(text))
	return nil
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}
