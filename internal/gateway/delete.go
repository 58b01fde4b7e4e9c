package gateway

import (
	"bytes"
	"encoding/json"
)

// DeleteKind tags the shape of a DELETE response body.
type DeleteKind int

const (
	// DeleteEmpty covers an empty body and any body that carries no verdict.
	DeleteEmpty DeleteKind = iota
	// DeleteJSON is a JSON object {"success": bool}.
	DeleteJSON
	// DeleteText is the bare text true or false.
	DeleteText
)

func (k DeleteKind) String() string {
	switch k {
	case DeleteJSON:
		return "json"
	case DeleteText:
		return "text"
	default:
		return "empty"
	}
}

// DeleteResponse is a parsed DELETE body. Success is meaningful only when
// Kind is not DeleteEmpty.
type DeleteResponse struct {
	Kind    DeleteKind
	Success bool
}

// ParseDeleteResponse classifies a DELETE body.
func ParseDeleteResponse(body []byte) DeleteResponse {
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		return DeleteResponse{Kind: DeleteEmpty}
	case bytes.EqualFold(trimmed, []byte("true")):
		return DeleteResponse{Kind: DeleteText, Success: true}
	case bytes.EqualFold(trimmed, []byte("false")):
		return DeleteResponse{Kind: DeleteText, Success: false}
	}

	var obj struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(trimmed, &obj); err == nil && obj.Success != nil {
		return DeleteResponse{Kind: DeleteJSON, Success: *obj.Success}
	}
	return DeleteResponse{Kind: DeleteEmpty}
}

// Resolve returns the verdict carried by the body, or statusOK when the body
// had none.
func (r DeleteResponse) Resolve(statusOK bool) bool {
	if r.Kind == DeleteEmpty {
		return statusOK
	}
	return r.Success
}
