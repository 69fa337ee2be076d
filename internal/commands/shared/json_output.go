// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shared

import (
	"encoding/json"
	"io"
	"os"
)

// JSONResponse is the base envelope for all JSON output
type JSONResponse struct {
	Version string `json:"@version"`
	Command string `json:"command"`
	Success bool   `json:"success"`
}

// NewJSONResponse creates a success envelope for the named command.
func NewJSONResponse(command string) JSONResponse {
	return JSONResponse{
		Version: "1.0",
		Command: command,
		Success: true,
	}
}

// EmitJSON marshals a response to JSON and outputs it to stdout.
// This ensures consistent formatting across all commands.
func EmitJSON(response interface{}) error {
	return EmitJSONTo(os.Stdout, response)
}

// EmitJSONTo writes the response to an arbitrary writer, for tests.
func EmitJSONTo(w io.Writer, response interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}
