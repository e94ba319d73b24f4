// Package checkin encodes the completion check-in stored in an entry's notes.
package checkin

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	Version = 1
	Kind    = "completion-checkin"
)

type Mood string

const (
	MoodUp   Mood = "up"
	MoodDown Mood = "down"
)

// CheckIn is the user's reflection on a completed task.
type CheckIn struct {
	Mood           Mood `json:"mood"`
	TimeWasCorrect bool `json:"timeWasCorrect"`
	StartedOnTime  bool `json:"startedOnTime"`
	EndedOnTime    bool `json:"endedOnTime"`
}

type payload struct {
	Version int     `json:"version"`
	Kind    string  `json:"kind"`
	Data    CheckIn `json:"data"`
}

//go:embed schema/completion_checkin.json
var schemaJSON string

var schema = jsonschema.MustCompileString("completion_checkin.json", schemaJSON)

// Serialize encodes a check-in as a versioned notes payload.
func Serialize(c CheckIn) string {
	data, err := json.Marshal(payload{Version: Version, Kind: Kind, Data: c})
	if err != nil {
		// payload only holds strings and bools
		panic(fmt.Sprintf("checkin: marshal: %v", err))
	}
	return string(data)
}

// Parse decodes notes written by Serialize. Anything else, including empty
// notes, free text and payloads of another version or kind, reports false.
func Parse(notes string) (CheckIn, bool) {
	if strings.TrimSpace(notes) == "" {
		return CheckIn{}, false
	}
	if err := Validate(notes); err != nil {
		return CheckIn{}, false
	}

	// Validate has checked version and kind; only data is decoded.
	var p struct {
		Data CheckIn `json:"data"`
	}
	if err := json.Unmarshal([]byte(notes), &p); err != nil {
		return CheckIn{}, false
	}
	return p.Data, true
}

// ValidationError describes the first schema violation found in a payload.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks notes against the check-in schema.
func Validate(notes string) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(notes)))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return &ValidationError{Message: fmt.Sprintf("not JSON: %v", err)}
	}
	if dec.More() {
		return &ValidationError{Message: "trailing data after JSON value"}
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return firstCause(ve)
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func firstCause(ve *jsonschema.ValidationError) *ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	path := strings.ReplaceAll(strings.TrimPrefix(ve.InstanceLocation, "/"), "/", ".")
	return &ValidationError{Path: path, Message: ve.Message}
}
