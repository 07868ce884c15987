package domain

import "context"

// Payload is the enrichment output a processor hands to the sink
type Payload struct {
	Category Category
	Title    string
	Body     string
	Links    []string
}

// Processor performs category specific enrichment for a record
// implementations must be safely retryable on the same record
type Processor interface {
	Category() Category
	Process(ctx context.Context, rec Record) (Payload, error)
}

// SourceReader produces a finite batch of records from an export or API page
// readers must supply stable ids; dedup across invocations is the pipeline's job
type SourceReader interface {
	Read(ctx context.Context) ([]Record, error)
}

// Sink persists a human readable artifact and returns an opaque output ref
type Sink interface {
	Write(ctx context.Context, rec Record, p Payload) (string, error)
}

// Distiller condenses raw content into a short summary
// backed by an LLM in production and by fakes in tests
type Distiller interface {
	Distill(ctx context.Context, prompt string, content string) (string, error)
}
