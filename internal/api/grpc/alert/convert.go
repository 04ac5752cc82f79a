package alert

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/p1-alert/internal/domain/alert"
)

// Field names of the status and actor structs.
const (
	fieldLifecycle   = "lifecycle"
	fieldSequencer   = "sequencer"
	fieldQueued      = "queued"
	fieldHidePending = "hide_pending"
	fieldChangedAt   = "changed_at"
	fieldHostname    = "hostname"
	fieldUsername    = "username"
)

// errMalformedStatus is returned when a status struct cannot be decoded.
var errMalformedStatus = errors.New("malformed status")

// ActorToStruct converts an actor into its wire form.
func ActorToStruct(actor *domain.Actor) *structpb.Struct {
	if actor == nil {
		return &structpb.Struct{}
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldHostname: structpb.NewStringValue(actor.Hostname),
			fieldUsername: structpb.NewStringValue(actor.Username),
		},
	}
}

// actorFromStruct extracts the actor, returning nil when either field is missing.
func actorFromStruct(s *structpb.Struct) *domain.Actor {
	fields := s.GetFields()

	actor := &domain.Actor{
		Hostname: fields[fieldHostname].GetStringValue(),
		Username: fields[fieldUsername].GetStringValue(),
	}

	if actor.Hostname == "" || actor.Username == "" {
		return nil
	}

	return actor
}

// StatusToStruct converts a lifecycle status into its wire form.
func StatusToStruct(status domain.Status) *structpb.Struct {
	changedAt := ""
	if !status.ChangedAt.IsZero() {
		changedAt = status.ChangedAt.UTC().Format(time.RFC3339Nano)
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldLifecycle:   structpb.NewStringValue(status.Lifecycle.String()),
			fieldSequencer:   structpb.NewStringValue(status.Sequencer.String()),
			fieldQueued:      structpb.NewNumberValue(float64(status.Queued)),
			fieldHidePending: structpb.NewBoolValue(status.HidePending),
			fieldChangedAt:   structpb.NewStringValue(changedAt),
		},
	}
}

// StatusFromStruct decodes the wire form produced by StatusToStruct.
func StatusFromStruct(s *structpb.Struct) (domain.Status, error) {
	fields := s.GetFields()

	lifecycle, ok := domain.ParseLifecycleState(fields[fieldLifecycle].GetStringValue())
	if !ok {
		return domain.Status{}, fmt.Errorf("%w: lifecycle %q", errMalformedStatus, fields[fieldLifecycle].GetStringValue())
	}

	sequencer, ok := domain.ParseSequencerState(fields[fieldSequencer].GetStringValue())
	if !ok {
		return domain.Status{}, fmt.Errorf("%w: sequencer %q", errMalformedStatus, fields[fieldSequencer].GetStringValue())
	}

	status := domain.Status{
		Lifecycle:   lifecycle,
		Sequencer:   sequencer,
		Queued:      int(fields[fieldQueued].GetNumberValue()),
		HidePending: fields[fieldHidePending].GetBoolValue(),
	}

	if raw := fields[fieldChangedAt].GetStringValue(); raw != "" {
		changedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return domain.Status{}, fmt.Errorf("%w: changed_at: %w", errMalformedStatus, err)
		}

		status.ChangedAt = changedAt
	}

	return status, nil
}
