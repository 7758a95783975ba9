// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codegen

import (
	"fmt"
	"strings"

	"github.com/opencan/opencan/can/signal"
)

func getterFnName(s signal.Signal) string {
	return fmt.Sprintf("CANRX_get_%s", s.Name())
}

func rawGetterFnName(s signal.Signal) string {
	return fmt.Sprintf("CANRX_getRaw_%s", s.Name())
}

func enumTypeName(s signal.Signal) string {
	return fmt.Sprintf("enum CAN_Enum_%s", s.Name())
}

// enumDef renders the signal's bijective enumerated-value map as a C enum,
// or "" if the signal has none.
func enumDef(s signal.Signal) string {
	if !s.HasEnumeratedValues() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", enumTypeName(s))
	for _, name := range s.EnumeratedValueNames() {
		val, _ := s.EnumeratedValue(name)
		fmt.Fprintf(&b, "    %s_%s = %d,\n", strings.ToUpper(s.Name()), name, val)
	}
	b.WriteString("};")

	return b.String()
}
