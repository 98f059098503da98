// Copyright 2025 The kir Authors.
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

package ir

// Names of the runtime intrinsics targeted by the synthesized
// expressions. The backend emitters and the runtime library must agree
// on these names: they are the calling convention of a lowered
// function.
const (
	// BufferNew creates a buffer handle of a given byte size.
	BufferNew = "kir_buffer_new"
	// BufferMalloc resizes and allocates the storage of a buffer.
	BufferMalloc = "kir_buffer_malloc"
	// BufferFree releases the storage of a buffer.
	BufferFree = "kir_buffer_free"
	// BufferGetDataHandle extracts the mutable data pointer of a buffer.
	BufferGetDataHandle = "kir_buffer_get_data_handle"
	// BufferGetDataConstHandle extracts the read-only data pointer of a buffer.
	BufferGetDataConstHandle = "kir_buffer_get_data_const_handle"
	// PodValueToBuffer extracts a buffer handle from the type-erased
	// argument array.
	PodValueToBuffer = "kir_pod_value_to_buffer_p"

	podValueToPrefix = "kir_pod_value_to_"
)

// PodValueTo returns the name of the intrinsic extracting a scalar of
// the given kind from the type-erased argument array.
func PodValueTo(kind Kind) string {
	return podValueToPrefix + kind.String()
}

// CallIntrinsic returns a call to a runtime intrinsic.
func CallIntrinsic(name string, kind Kind, args ...Expr) *Call {
	return &Call{Name: name, Args: args, Knd: kind}
}
