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

package faults_test

import (
	"strings"
	"testing"

	"github.com/kir-org/kir/build/faults"
	"github.com/pkg/errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want faults.Kind
	}{
		{
			err:  faults.Errorf(faults.InvalidState, "argument %s is undefined", "a"),
			want: faults.InvalidState,
		},
		{
			err:  faults.Errorf(faults.IndexOutOfRange, "offset %d", 3),
			want: faults.IndexOutOfRange,
		},
		{
			err:  errors.Wrap(faults.Errorf(faults.DescriptorMismatch, "bad signature"), "function add"),
			want: faults.DescriptorMismatch,
		},
		{
			err:  faults.Wrap(faults.UnresolvedSymbol, errors.New("no buffer named tmp")),
			want: faults.UnresolvedSymbol,
		},
		{
			err:  errors.New("plain"),
			want: faults.Unknown,
		},
	}
	for i, test := range tests {
		if got := faults.KindOf(test.err); got != test.want {
			t.Errorf("test %d: KindOf = %v but want %v", i, got, test.want)
		}
	}
}

func TestWrapNil(t *testing.T) {
	if err := faults.Wrap(faults.InvalidState, nil); err != nil {
		t.Errorf("Wrap(nil) = %v but want nil", err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := faults.Errorf(faults.UnresolvedSymbol, "no buffer named %s", "tmp")
	if !strings.Contains(err.Error(), "unresolved symbol") {
		t.Errorf("error message %q does not name the fault kind", err.Error())
	}
	if !strings.Contains(err.Error(), "tmp") {
		t.Errorf("error message %q does not name the offending symbol", err.Error())
	}
}

func TestInternal(t *testing.T) {
	err := faults.Internal(faults.Errorf(faults.DescriptorMismatch, "bad"))
	if !strings.Contains(err.Error(), "bug in kir") {
		t.Errorf("internal error %q is missing the reporting notice", err.Error())
	}
}
