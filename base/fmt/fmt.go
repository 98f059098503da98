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

// Package fmt provides utility methods for building string representations of kir objects.
package fmt

import (
	"fmt"
	"reflect"
	"strings"
)

// IndentSkip skips some lines and indent the rest with a tabulation.
func IndentSkip(skip int, x string) string {
	var y strings.Builder
	n := 0
	for line := range strings.Lines(x) {
		if n >= skip {
			y.WriteString("\t")
		}
		y.WriteString(line)
		n++
	}
	return y.String()
}

// Indent the given string by a tabulation.
func Indent(x string) string {
	return IndentSkip(0, x)
}

func sliceString(x any) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%T{\n", x))
	val := reflect.ValueOf(x)
	for i := range val.Len() {
		s.WriteString(Indent(fmt.Sprintf("%d: %s,\n", i, String(val.Index(i).Interface()))))
	}
	s.WriteString("}")
	return s.String()
}

// String returns a human-friendly debugging string representation of a kir object.
func String(x any) string {
	if x == nil {
		return "nil"
	}
	val := reflect.ValueOf(x)
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		if val.IsNil() {
			return fmt.Sprintf("%T(nil)", x)
		}
	}
	if reflect.TypeOf(x).Kind() == reflect.Slice {
		return sliceString(x)
	}
	strng, ok := x.(fmt.Stringer)
	if ok {
		return strng.String()
	}
	return fmt.Sprintf("%v", x)
}
