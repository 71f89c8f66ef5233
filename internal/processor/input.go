package processor

import (
	"encoding/json"

	cerrors "github.com/sightline-lab/project-sightline/internal/core/errors"
)

// ActionAggregate is the only direct action the processor understands.
const ActionAggregate = "aggregate"

// StorageEvent names an uploaded object in the object store.
type StorageEvent struct {
	Bucket string
	Object string
}

// DirectAction is an explicit processing command.
type DirectAction struct {
	Action string
}

// Input is the batch-trigger payload as a tagged union: exactly one of the
// two variants is set. The loose upstream shapes ("Records" notifications
// vs {"action": ...} commands) are decoded once here, at the boundary, so
// the processing core never branches on the presence of raw JSON keys.
type Input struct {
	StorageEvent *StorageEvent
	DirectAction *DirectAction
}

// AggregateInput builds the direct-action input used by the HTTP trigger
// and the scheduler.
func AggregateInput() Input {
	return Input{DirectAction: &DirectAction{Action: ActionAggregate}}
}

// notificationEnvelope mirrors the storage-event notification wire shape:
// Records[].s3.bucket.name / Records[].s3.object.key.
type notificationEnvelope struct {
	Records []struct {
		S3 *struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
	Action string `json:"action"`
}

// DecodeInput parses a raw trigger payload into its variant.
// Returns a ValidationError when neither variant is present.
func DecodeInput(raw []byte) (Input, error) {
	var env notificationEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Input{}, cerrors.WrongType("payload", "must be a JSON object")
	}

	for _, rec := range env.Records {
		if rec.S3 != nil {
			return Input{StorageEvent: &StorageEvent{
				Bucket: rec.S3.Bucket.Name,
				Object: rec.S3.Object.Key,
			}}, nil
		}
	}

	if env.Action != "" {
		return Input{DirectAction: &DirectAction{Action: env.Action}}, nil
	}

	return Input{}, cerrors.MissingField("action")
}
