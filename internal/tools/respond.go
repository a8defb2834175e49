package tools

import (
	"fmt"

	"github.com/sebbaker/apple-mcp/pkg/types"
)

// batchResponse is the uniform reply shape for batch mutations.
type batchResponse struct {
	Success   bool                    `json:"success"`
	Message   string                  `json:"message"`
	Requested int                     `json:"requested"`
	Succeeded int                     `json:"succeeded"`
	Items     []types.BatchItemResult `json:"items"`
}

// respondBatch summarizes a batch outcome ("Moved 2 of 3 emails").
func respondBatch(pastTenseVerb string, result types.BatchResult) batchResponse {
	return batchResponse{
		Success:   result.Success,
		Message:   fmt.Sprintf("%s %d of %d emails", pastTenseVerb, result.Succeeded, result.Requested),
		Requested: result.Requested,
		Succeeded: result.Succeeded,
		Items:     result.Items,
	}
}
