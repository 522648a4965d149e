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
	"errors"
)

// VERSION2 is the only JSON-RPC protocol version spoken between nodes.
const VERSION2 string = "2.0"

var (
	ErrOnlySupportJSONRPC2 = errors.New("the API only supports JSON-RPC 2.0")
	ErrMethodIsRequired    = errors.New("the method is required")
)

// Params is just a nicer way to describe what's passed along with a method.
type Params interface{}

type Request struct {
	// Version specifies the version of the JSON-RPC protocol.
	// MUST be exactly "2.0".
	Version string `json:"jsonrpc"`

	// Method contains the name of the method to be invoked.
	Method string `json:"method"`

	// Params is a by-name structured value holding the parameter values to
	// be used during the invocation of the method. MAY be omitted.
	Params Params `json:"params,omitempty"`

	// ID is an identifier established by the client that MUST contain a
	// string. If it is not included the request is assumed to be a
	// notification. The server MUST reply with the same value in the
	// response object if included.
	ID string `json:"id,omitempty"`
}

// NewRequest builds a well-formed request for the given method.
func NewRequest(id, method string, params Params) Request {
	return Request{
		Version: VERSION2,
		Method:  method,
		Params:  params,
		ID:      id,
	}
}

func (r *Request) Check() error {
	if r.Version != VERSION2 {
		return ErrOnlySupportJSONRPC2
	}

	if r.Method == "" {
		return ErrMethodIsRequired
	}

	return nil
}

func (r *Request) IsNotification() bool {
	return r.ID == ""
}
