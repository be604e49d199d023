package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaDocument []byte

var ErrInvalid = errors.New("snapshot: invalid document")

// Issue is a single validation finding.
type Issue struct {
	Location string
	Message  string
}

func (i Issue) String() string {
	location := strings.TrimSpace(i.Location)
	if location == "" {
		location = "#"
	}
	return fmt.Sprintf("%s: %s", location, i.Message)
}

// ValidationError lists the issues that make a snapshot unusable.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return "snapshot: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func documentSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("snapshot.json", bytes.NewReader(schemaDocument)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile("snapshot.json")
	})
	return compiledSchema, compileErr
}

type validateConfig struct {
	knownFields map[string]struct{}
}

// ValidateOption tunes Validate.
type ValidateOption func(*validateConfig)

// WithKnownFields reports record field names outside names as warnings,
// since the importer drops values it cannot store.
func WithKnownFields(names ...string) ValidateOption {
	return func(cfg *validateConfig) {
		if cfg.knownFields == nil {
			cfg.knownFields = make(map[string]struct{}, len(names))
		}
		for _, name := range names {
			cfg.knownFields[name] = struct{}{}
		}
	}
}

// Validate checks snap against the document schema and the record
// invariants. Hard failures are returned as a *ValidationError. Findings that
// the live store may still satisfy, such as a translation whose source
// language is absent from the snapshot or a parent outside it, are returned
// as warnings.
func Validate(snap *Snapshot, opts ...ValidateOption) ([]Issue, error) {
	cfg := validateConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if snap == nil {
		return nil, &ValidationError{Issues: []Issue{{Message: "snapshot is empty"}}}
	}
	if issues, err := validateSchema(snap); err != nil {
		return nil, err
	} else if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	var (
		problems []Issue
		warnings []Issue
	)
	seenGroups := map[uuid.UUID]int{}
	localIDs := map[uuid.UUID]struct{}{}
	for _, rec := range snap.Records() {
		if rec.LocalID != uuid.Nil {
			localIDs[rec.LocalID] = struct{}{}
		}
	}
	identities := snap.Identities()

	for gi, group := range snap.Groups {
		groupLoc := fmt.Sprintf("/groups/%d", gi)
		if prev, ok := seenGroups[group.Identity]; ok {
			problems = append(problems, Issue{
				Location: groupLoc,
				Message:  fmt.Sprintf("identity %s already used by group %d", group.Identity, prev),
			})
		}
		seenGroups[group.Identity] = gi

		languages := map[string]struct{}{}
		for ri, rec := range group.Records {
			loc := fmt.Sprintf("%s/records/%d", groupLoc, ri)
			if rec.Identity != group.Identity {
				problems = append(problems, Issue{Location: loc, Message: fmt.Sprintf("record identity %s does not match group %s", rec.Identity, group.Identity)})
			}
			if _, dup := languages[rec.Language]; dup {
				problems = append(problems, Issue{Location: loc, Message: fmt.Sprintf("duplicate language %q for %s", rec.Language, group.Identity)})
			}
			languages[rec.Language] = struct{}{}

			if !rec.IsOriginal() {
				if _, ok := group.Record(rec.TranslationSource); !ok {
					warnings = append(warnings, Issue{Location: loc, Message: fmt.Sprintf("translation source %q is not in the snapshot", rec.TranslationSource)})
				}
			}
			if rec.Parent != nil {
				if !parentResolves(*rec.Parent, identities, localIDs) {
					warnings = append(warnings, Issue{Location: loc, Message: fmt.Sprintf("parent %q is not in the snapshot", *rec.Parent)})
				}
			}
			if cfg.knownFields != nil {
				for _, name := range unknownFields(rec.Fields, cfg.knownFields) {
					warnings = append(warnings, Issue{Location: loc + "/fields/" + name, Message: fmt.Sprintf("field %q is not stored and will be ignored on import", name)})
				}
			}
		}
	}

	if len(problems) > 0 {
		return warnings, &ValidationError{Issues: problems}
	}
	return warnings, nil
}

func validateSchema(snap *Snapshot) ([]Issue, error) {
	schema, err := documentSchema()
	if err != nil {
		return nil, fmt.Errorf("snapshot: compile schema: %w", err)
	}
	encoded, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return collectIssues(validationErr), nil
		}
		return nil, err
	}
	return nil, nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

func unknownFields(fields map[string]any, known map[string]struct{}) []string {
	var names []string
	for name := range fields {
		if _, ok := known[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func parentResolves(ref string, identities, localIDs map[uuid.UUID]struct{}) bool {
	_, raw, ok := strings.Cut(ref, ":")
	if !ok {
		raw = ref
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if _, ok := identities[id]; ok {
		return true
	}
	_, ok = localIDs[id]
	return ok
}
