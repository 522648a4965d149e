// Copyright (C) 2024 Deneb Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// ErrorCode mirrors the JSON-RPC 2.0 reserved error codes.
type ErrorCode int16

const (
	// ErrorCodeParseError: invalid JSON was received by the server.
	ErrorCodeParseError ErrorCode = -32700
	// ErrorCodeInvalidRequest: the JSON sent is not a valid request object.
	ErrorCodeInvalidRequest ErrorCode = -32600
	// ErrorCodeMethodNotFound: the method does not exist or is not available.
	ErrorCodeMethodNotFound ErrorCode = -32601
	// ErrorCodeInvalidParams: invalid method parameters.
	ErrorCodeInvalidParams ErrorCode = -32602
	// ErrorCodeInternalError: internal JSON-RPC error.
	ErrorCodeInternalError ErrorCode = -32603
)

type ErrorDetails struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Data    string    `json:"data,omitempty"`
}

func (d *ErrorDetails) Error() string {
	if d.Data != "" {
		return fmt.Sprintf("%s (%d): %s", d.Message, d.Code, d.Data)
	}
	return fmt.Sprintf("%s (%d)", d.Message, d.Code)
}

type Response struct {
	// Version specifies the version of the JSON-RPC protocol.
	// MUST be exactly "2.0".
	Version string `json:"jsonrpc"`

	// Result is REQUIRED on success, and MUST NOT exist if there was an
	// error. Kept raw so callers decode into their own reply types.
	Result json.RawMessage `json:"result,omitempty"`

	// Error is REQUIRED on error and MUST NOT exist on success.
	Error *ErrorDetails `json:"error,omitempty"`

	// ID matches the request the response replies to.
	ID string `json:"id,omitempty"`
}

func (r *Response) Check() error {
	if r.Version != VERSION2 {
		return ErrOnlySupportJSONRPC2
	}
	if r.Error != nil {
		return r.Error
	}
	return nil
}
