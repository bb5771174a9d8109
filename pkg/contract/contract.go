package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var embeddedDocument []byte

// Operation ids declared in the embedded document.
const (
	OpListRegions       = "listRegions"
	OpRequestCode       = "requestCode"
	OpVerifyCode        = "verifyCode"
	OpCreateDeclaration = "createDeclaration"
	OpSendMessage       = "sendMessage"
	OpCreateCommune     = "createCommune"
)

// Operation summarises one documented endpoint.
type Operation struct {
	ID     string
	Method string
	Path   string
}

type operation struct {
	Operation
	schema *openapi3.Schema
}

// Contract is a parsed backend description.
type Contract struct {
	doc        *openapi3.T
	operations map[string]operation
}

// Load parses the embedded backend description.
func Load(ctx context.Context) (*Contract, error) {
	return LoadFromData(ctx, embeddedDocument)
}

// LoadFromData parses and validates an OpenAPI document.
func LoadFromData(ctx context.Context, raw []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}

	c := &Contract{doc: doc, operations: make(map[string]operation)}
	if doc.Paths == nil {
		return c, nil
	}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			c.operations[id] = operation{
				Operation: Operation{ID: id, Method: strings.ToUpper(method), Path: path},
				schema:    requestSchema(op.RequestBody),
			}
		}
	}
	return c, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	media := body.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}

// Title returns the document title.
func (c *Contract) Title() string {
	if c.doc.Info == nil {
		return ""
	}
	return c.doc.Info.Title
}

// Operations lists documented endpoints sorted by id.
func (c *Contract) Operations() []Operation {
	out := make([]Operation, 0, len(c.operations))
	for _, op := range c.operations {
		out = append(out, op.Operation)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Operation looks up an endpoint by id.
func (c *Contract) Operation(id string) (Operation, bool) {
	op, ok := c.operations[id]
	return op.Operation, ok
}

// CheckRequest validates body against the request schema of the operation.
// It returns the violations found; an error is only returned when the
// operation cannot be checked at all.
func (c *Contract) CheckRequest(operationID string, body any) ([]Issue, error) {
	op, ok := c.operations[operationID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, operationID)
	}
	if op.schema == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRequestSchema, operationID)
	}

	generic, err := toGeneric(body)
	if err != nil {
		return nil, fmt.Errorf("contract: encode %s body: %w", operationID, err)
	}

	err = op.schema.VisitJSON(generic, openapi3.MultiErrors())
	if err == nil {
		return nil, nil
	}
	return collectIssues(err), nil
}

// toGeneric round-trips through JSON so the schema visitor sees the same
// maps, slices and float64 numbers the backend will decode.
func toGeneric(body any) (any, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
