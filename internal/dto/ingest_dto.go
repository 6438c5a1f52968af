package dto

// EmbedDocumentMessage is the payload published for every source document
// during an ingest run; the indexer consumer chunks and embeds it.
type EmbedDocumentMessage struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}
