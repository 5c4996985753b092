package notifications

import "encoding/json"

func UnmarshalDispatchRequest(data []byte) (DispatchRequest, error) {
	var r DispatchRequest
	err := json.Unmarshal(data, &r)
	return r, err
}

func (r *DispatchRequest) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// DispatchRequest asks the worker to run one dispatch attempt.
type DispatchRequest struct {
	// Echoed on the outcome event
	CorrelationID string `json:"correlation_id,omitempty"`
	// Mode code, "1".."4"
	Mode string `json:"mode"`
	// Recipient address for secret and targeted notifications
	Recipient string `json:"recipient,omitempty"`
	// Recipient addresses for subset notifications, in order
	Recipients []string `json:"recipients,omitempty"`
	// Optional fields: nil means disabled
	Subject *string `json:"subject,omitempty"`
	Body    string  `json:"body"`
	CTA     *string `json:"cta,omitempty"`
	Media   *string `json:"media,omitempty"`
}
