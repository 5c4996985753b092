// Package notifications holds the wire contracts of the notification pipeline:
// the payload written to content-addressed storage, the dispatch request accepted
// by the worker and the outcome events it emits.
//
//	payload, err := UnmarshalPayload(bytes)
//	bytes, err = payload.Marshal()
package notifications

import "encoding/json"

func UnmarshalPayload(data []byte) (Payload, error) {
	var r Payload
	err := json.Unmarshal(data, &r)
	return r, err
}

func (r *Payload) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Payload is the object stored off-chain and referenced by the identity string.
// Field names are read by on-chain and off-chain consumers and must not change.
type Payload struct {
	// Outer push metadata; placeholders for secret notifications
	Notification Notification `json:"notification"`
	// Delivery data, ciphertext for secret notifications
	Data Data `json:"data"`
	// Subset recipients snapshot; absent for every other mode
	Recipients []string `json:"recipients,omitempty"`
}

type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Data struct {
	// Mode code as a decimal string, "1".."4"
	Type string `json:"type"`
	// Encapsulated symmetric secret; secret mode only
	Secret string `json:"secret,omitempty"`
	// Subject
	ASub string `json:"asub"`
	// Message body
	AMsg string `json:"amsg"`
	// Call to action link
	ACTA string `json:"acta"`
	// Media URI
	AImg string `json:"aimg"`
}

// IsSecret reports whether the data fields carry ciphertext.
func (r *Payload) IsSecret() bool { return r.Data.Secret != "" }
