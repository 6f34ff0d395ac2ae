package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pluqqy/tabpad/internal/cli"
	"github.com/pluqqy/tabpad/pkg/models"
	"github.com/pluqqy/tabpad/pkg/utils"
)

// DocumentInfo is the listing form of a document
type DocumentInfo struct {
	Tab      int    `json:"tab" yaml:"tab"`
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Language string `json:"language" yaml:"language"`
	Active   bool   `json:"active" yaml:"active"`
	utils.TextStats `yaml:",inline"`
}

// DocumentDetail is a document with its content
type DocumentDetail struct {
	DocumentInfo `yaml:",inline"`
	Content      string `json:"content" yaml:"content"`
}

const shortIDLength = 8

var errNoDocuments = errors.New("no documents are open, create one with 'tabpad new'")

func newDocumentInfo(c *cli.CommandContext, doc models.Document) DocumentInfo {
	return DocumentInfo{
		Tab:       c.Manager.IndexOf(doc.ID) + 1,
		ID:        doc.ID,
		Name:      doc.Name,
		Language:  string(doc.Language),
		Active:    doc.ID == c.Manager.ActiveID(),
		TextStats: utils.Stats(doc.Content),
	}
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

// resolveOrActive resolves ref, or the active document when no ref is given
func resolveOrActive(c *cli.CommandContext, args []string) (models.Document, error) {
	if len(args) > 0 {
		return c.Resolve(args[0])
	}
	doc, ok := c.Manager.Active()
	if !ok {
		return models.Document{}, errNoDocuments
	}
	return doc, nil
}

// outputMutation reports the document a command changed. Structured formats
// print the document as it is now; text prints the message.
func outputMutation(cmd *cobra.Command, c *cli.CommandContext, doc models.Document, format string, args ...interface{}) error {
	switch output := outputFormat(cmd); output {
	case "json", "yaml":
		if current, err := c.Manager.Get(doc.ID); err == nil {
			doc = current
		}
		return cli.OutputResults(cmd.OutOrStdout(), output, newDocumentInfo(c, doc))
	default:
		cli.PrintSuccess(format, args...)
		return nil
	}
}
