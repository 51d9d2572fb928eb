package dedup

import (
	"sort"
	"strings"

	"ai-assistant-be/internal/repository/contract"
)

// Document is a user-facing retrieval result: one logical document collapsed
// from the chunk-level hits that share its key.
type Document struct {
	Key        string
	Content    string
	Similarity float64
	FilePath   string
	FileName   string
	FileType   string
	HasFile    bool
}

// Key derives the identity used to collapse chunk hits into documents:
// file path if present, else file name, else the record id. Text-only
// entries therefore never collide with each other.
func Key(s *contract.ScoredKnowledgeEntry) string {
	e := s.Entry
	if e.FilePath != "" {
		return e.FilePath
	}
	if e.FileName != "" {
		return e.FileName
	}
	return e.Id.String()
}

// Collapse drops candidates below floor, merges candidates sharing a document
// key into a single representative (max similarity, contents concatenated in
// encounter order), and returns at most topK documents descending by the
// retained similarity.
func Collapse(candidates []*contract.ScoredKnowledgeEntry, floor float64, topK int) []Document {
	merged := make(map[string]*Document)
	order := make([]string, 0, len(candidates))

	for _, c := range candidates {
		if c.Similarity < floor {
			continue
		}

		key := Key(c)
		doc, ok := merged[key]
		if !ok {
			merged[key] = &Document{
				Key:        key,
				Content:    c.Entry.Content,
				Similarity: c.Similarity,
				FilePath:   c.Entry.FilePath,
				FileName:   c.Entry.FileName,
				FileType:   c.Entry.FileType,
				HasFile:    c.Entry.HasFile(),
			}
			order = append(order, key)
			continue
		}

		doc.Content = doc.Content + "\n" + c.Entry.Content
		if c.Similarity > doc.Similarity {
			doc.Similarity = c.Similarity
		}
	}

	docs := make([]Document, 0, len(order))
	for _, key := range order {
		docs = append(docs, *merged[key])
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Similarity > docs[j].Similarity
	})

	if topK > 0 && len(docs) > topK {
		docs = docs[:topK]
	}
	return docs
}

// Preview returns the first n characters of the document content with
// internal whitespace collapsed, suitable for synthesis prompts.
func (d Document) Preview(n int) string {
	content := strings.Join(strings.Fields(d.Content), " ")
	if n > 0 && len(content) > n {
		return content[:n] + "..."
	}
	return content
}
