// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codegen

import (
	"fmt"
	"strings"

	"github.com/opencan/opencan/can/message"
	"github.com/opencan/opencan/can/signal"
)

// messageNamer derives every name codegen attaches to a message, honoring
// the struct/enum-ownership rules for Kind (SPEC_FULL.md §11.1, grounded on
// original_source/codegen/src/message.rs's CANMessageKind match arms).
type messageNamer struct {
	msg message.Message
}

func namer(msg message.Message) messageNamer { return messageNamer{msg: msg} }

func (n messageNamer) structTy() string {
	switch n.msg.Kind() {
	case message.KindTemplate:
		return fmt.Sprintf("struct CAN_TMessage_%s", n.msg.Name())
	case message.KindFromTemplate:
		return fmt.Sprintf("struct CAN_TMessage_%s", n.msg.OriginTemplate())
	default:
		return fmt.Sprintf("struct CAN_Message_%s", n.msg.Name())
	}
}

func (n messageNamer) rawStructTy() string {
	switch n.msg.Kind() {
	case message.KindTemplate:
		return fmt.Sprintf("struct CAN_TMessageRaw_%s", n.msg.Name())
	case message.KindFromTemplate:
		return fmt.Sprintf("struct CAN_TMessageRaw_%s", n.msg.OriginTemplate())
	default:
		return fmt.Sprintf("struct CAN_MessageRaw_%s", n.msg.Name())
	}
}

func (n messageNamer) globalStructIdent() string {
	return fmt.Sprintf("CANRX_Message_%s", n.msg.Name())
}

func (n messageNamer) globalRawStructIdent() string {
	return fmt.Sprintf("CANRX_MessageRaw_%s", n.msg.Name())
}

func (n messageNamer) rxFnName() string { return fmt.Sprintf("CANRX_doRx_%s", n.msg.Name()) }
func (n messageNamer) rxTimestampIdent() string {
	return fmt.Sprintf("CANRX_lastRxTime_%s", n.msg.Name())
}
func (n messageNamer) rxCallbackFnName() string {
	return fmt.Sprintf("CANRX_onRxCallback_%s", n.msg.Name())
}
func (n messageNamer) txFnName() string { return fmt.Sprintf("CANTX_doTx_%s", n.msg.Name()) }

func (n messageNamer) txPopulateFnName() string {
	if n.msg.Kind() == message.KindFromTemplate {
		return fmt.Sprintf("CANTX_populateTemplate_%s_%s", n.msg.OriginTemplate(), n.msg.Name())
	}
	return fmt.Sprintf("CANTX_populate_%s", n.msg.Name())
}

// normalizeSignalName strips the template instantiation prefix from a
// signal's visible name so struct field names match the shared template
// struct definition every instance reuses.
func (n messageNamer) normalizeSignalName(name string) string {
	if n.msg.Kind() == message.KindFromTemplate {
		return strings.TrimPrefix(name, n.msg.SignalPrefix())
	}
	return name
}

// structDef renders the decoded-data struct definition for msg, or a
// one-line comment pointing at the owning template when this message is a
// template instance.
func structDef(msg message.Message) string {
	n := namer(msg)
	if msg.Kind() == message.KindFromTemplate {
		return fmt.Sprintf("/* Decoded struct %s provided by template `%s` */", n.structTy(), msg.OriginTemplate())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", n.structTy())
	for _, swp := range msg.Signals() {
		sig := swp.Signal()
		name := n.normalizeSignalName(sig.Name())
		desc := sig.Description()
		if desc == "" {
			desc = "(None)"
		}
		fmt.Fprintf(&b, "    /* %s - start bit %d, width %d */\n", desc, swp.Start(), sig.Width())
		fmt.Fprintf(&b, "    _Atomic %s %s;\n", decodedType(sig), name)
	}
	b.WriteString("};")

	return b.String()
}

func rawStructDef(msg message.Message) string {
	n := namer(msg)
	if msg.Kind() == message.KindFromTemplate {
		return fmt.Sprintf("/* Raw struct %s provided by template `%s` */", n.rawStructTy(), msg.OriginTemplate())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", n.rawStructTy())
	for _, swp := range msg.Signals() {
		sig := swp.Signal()
		name := n.normalizeSignalName(sig.Name())
		fmt.Fprintf(&b, "    /* Raw signal: %s - start bit %d, width %d */\n", sig.Name(), swp.Start(), sig.Width())
		fmt.Fprintf(&b, "    _Atomic %s %s;\n", rawType(sig), name)
	}
	b.WriteString("};")

	return b.String()
}

func signalEnums(msg message.Message) string {
	if msg.Kind() == message.KindFromTemplate {
		return fmt.Sprintf("/* Signal enums provided by template `%s` */", msg.OriginTemplate())
	}

	var defs []string
	for _, swp := range msg.Signals() {
		if d := enumDef(swp.Signal()); d != "" {
			defs = append(defs, d)
		}
	}
	if len(defs) == 0 {
		return "/* (none for this message) */"
	}
	return strings.Join(defs, "\n\n")
}

func getterFnDecls(msg message.Message) string {
	var b strings.Builder
	for _, swp := range msg.Signals() {
		sig := swp.Signal()
		fmt.Fprintf(&b, "%s %s(void);\n%s %s(void);\n\n", decodedType(sig), getterFnName(sig), rawType(sig), rawGetterFnName(sig))
	}
	return strings.TrimSpace(b.String())
}

func getterFnDefs(msg message.Message) string {
	n := namer(msg)
	var b strings.Builder
	for _, swp := range msg.Signals() {
		sig := swp.Signal()
		name := n.normalizeSignalName(sig.Name())
		fmt.Fprintf(&b, "%s %s(void) {\n    return %s.%s;\n}\n\n", decodedType(sig), getterFnName(sig), n.globalStructIdent(), name)
		fmt.Fprintf(&b, "%s %s(void) {\n    return %s.%s;\n}\n\n", rawType(sig), rawGetterFnName(sig), n.globalRawStructIdent(), name)
	}
	return strings.TrimSpace(b.String())
}

// byteWalkStep is a single mask/shift operation against one byte of a
// message's data array, produced by walking a signal's bit range one byte
// boundary at a time (spec.md §4.6/§4.7).
type byteWalkStep struct {
	byteIndex    uint32
	mask         uint8
	shiftInByte  uint32 // position of the selected bits within the byte
	shiftInField uint32 // position of the selected bits within the signal
	numBits      uint32
}

// walkSignalBits decomposes [start, end] into per-byte mask/shift steps,
// grounded on the byte-walking loop in message.rs's rx_fn_def/tx_fn_def.
func walkSignalBits(start, end uint32) []byteWalkStep {
	var steps []byteWalkStep

	pos := start
	for pos <= end {
		byteIdx := pos / 8
		endOfByte := (byteIdx+1)*8 - 1
		endPos := end
		if endOfByte < endPos {
			endPos = endOfByte
		}
		endPosInByte := endPos % 8

		numBits := endPos - pos + 1
		maskShift := endPosInByte + 1 - numBits

		var mask uint8
		if numBits == 8 {
			mask = 0xFF
		} else {
			mask = uint8((1 << numBits) - 1)
		}

		steps = append(steps, byteWalkStep{
			byteIndex:    byteIdx,
			mask:         mask,
			shiftInByte:  maskShift,
			shiftInField: pos - start,
			numBits:      numBits,
		})

		pos = endPos + 1
	}

	return steps
}

func unpackBlock(msg message.Message) string {
	var b strings.Builder
	n := namer(msg)

	for _, swp := range msg.Signals() {
		sig := swp.Signal()
		name := n.normalizeSignalName(sig.Name())
		unpackVar := "unpack__" + name
		unpackTy := rawTypeBeforeSignExtension(sig.Width())

		fmt.Fprintf(&b, "// Unpack `%s`, start bit %d, width %d\n", name, swp.Start(), sig.Width())
		fmt.Fprintf(&b, "%s %s = 0;\n", unpackTy, unpackVar)

		for _, step := range walkSignalBits(swp.Start(), swp.End()) {
			fmt.Fprintf(&b, "%s |= (%s)((data[%dU] & (0x%02xU << %dU)) >> %dU) << %dU;\n",
				unpackVar, unpackTy, step.byteIndex, step.mask, step.shiftInByte, step.shiftInByte, step.shiftInField)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

func signExtensionBlock(msg message.Message) string {
	var b strings.Builder
	n := namer(msg)

	for _, swp := range msg.Signals() {
		sig := swp.Signal()
		if !needsSignExtension(sig) {
			continue
		}
		name := n.normalizeSignalName(sig.Name())
		ty := rawType(sig)

		fmt.Fprintf(&b, "%s unpack_ext__%s = 0;\n{\n", ty, name)
		fmt.Fprintf(&b, "    const struct { %s x : %d; } x = { .x = unpack__%s };\n", ty, sig.Width(), name)
		fmt.Fprintf(&b, "    unpack_ext__%s = x.x;\n}\n\n", name)
	}

	return strings.TrimSpace(b.String())
}

func unpackedValueFor(msg message.Message, sig signal.Signal) string {
	name := namer(msg).normalizeSignalName(sig.Name())
	if needsSignExtension(sig) {
		return "unpack_ext__" + name
	}
	return "unpack__" + name
}

func rawStructInit(msg message.Message) string {
	n := namer(msg)
	var b strings.Builder
	fmt.Fprintf(&b, "const %s raw = {\n", n.rawStructTy())
	for _, swp := range msg.Signals() {
		sig := swp.Signal()
		name := n.normalizeSignalName(sig.Name())
		fmt.Fprintf(&b, "    .%s = %s,\n", name, unpackedValueFor(msg, sig))
	}
	b.WriteString("};")
	return b.String()
}

// decodingExpression renders the expression that maps a raw field to its
// decoded value: a scale/offset affine transform when present, else a
// straight pass-through.
func decodingExpression(sig signal.Signal, rawExpr string) string {
	scale, hasScale := sig.Scale()
	offset, hasOffset := sig.Offset()
	if !hasScale && !hasOffset {
		return rawExpr
	}
	if !hasScale {
		scale = 1
	}
	if !hasOffset {
		offset = 0
	}
	return fmt.Sprintf("(float)(%s) * %gf + %gf", rawExpr, scale, offset)
}

// encodingExpression is decodingExpression's inverse, used when packing.
func encodingExpression(sig signal.Signal, decExpr string) string {
	scale, hasScale := sig.Scale()
	offset, hasOffset := sig.Offset()
	if !hasScale && !hasOffset {
		return fmt.Sprintf("(%s)(%s)", rawType(sig), decExpr)
	}
	if !hasScale {
		scale = 1
	}
	if !hasOffset {
		offset = 0
	}
	return fmt.Sprintf("(%s)(((%s) - %gf) / %gf)", rawType(sig), decExpr, offset, scale)
}

func decodeBlock(msg message.Message) string {
	n := namer(msg)
	var b strings.Builder
	fmt.Fprintf(&b, "%s dec = {0};\n", n.structTy())
	for _, swp := range msg.Signals() {
		sig := swp.Signal()
		name := n.normalizeSignalName(sig.Name())
		fmt.Fprintf(&b, "// Decode `%s`\n", name)
		fmt.Fprintf(&b, "dec.%s = %s;\n\n", name, decodingExpression(sig, "raw."+name))
	}
	return strings.TrimSpace(b.String())
}

func rxFnDef(msg message.Message, emitCallback bool) string {
	n := namer(msg)

	if msg.Kind() == message.KindRaw {
		return fmt.Sprintf(`bool %s(
    const uint8_t * const data,
    const uint_fast8_t len
)
{
    /* Hand off straight to the user callback. */
    %s(data, len);

    return true;
}`, n.rxFnName(), n.rxCallbackFnName())
	}

	_, hasCycletime := msg.Cycletime()

	callback := ""
	if !hasCycletime {
		callback = fmt.Sprintf("\n\n/* ------- Call user rx callback ------- */\n%s(&raw, &dec);", n.rxCallbackFnName())
	}

	return fmt.Sprintf(`/**
 * Unpacks and decodes message %q from raw data.
 */
bool %s(
    const uint8_t * const data,
    const uint_fast8_t len
)
{
    /* Check that data length is correct */
    if (len != %dU) {
        return false;
    }

    /* ------- Unpack signals ------- */

    %s

    /* --- Perform sign extension --- */

    %s

    /* -- Populate raw value struct -- */

    %s

    /* ------- Decode signals ------- */

    %s

    /* ------- Set global data ------- */
    %s = raw;
    %s = dec;
    %s = CAN_callback_get_system_time();%s

    return true;
}`,
		msg.Name(), n.rxFnName(), msg.Length(),
		indent(unpackBlock(msg), 4),
		indent(signExtensionBlock(msg), 4),
		indent(rawStructInit(msg), 4),
		indent(decodeBlock(msg), 4),
		n.globalRawStructIdent(), n.globalStructIdent(), n.rxTimestampIdent(),
		callback,
	)
}

func packBlock(msg message.Message) string {
	n := namer(msg)
	var b strings.Builder

	for _, swp := range msg.Signals() {
		sig := swp.Signal()
		name := n.normalizeSignalName(sig.Name())

		fmt.Fprintf(&b, "// Pack `%s`, start bit %d, width %d\n", name, swp.Start(), sig.Width())

		unpackTy := rawTypeBeforeSignExtension(sig.Width())
		for _, step := range walkSignalBits(swp.Start(), swp.End()) {
			fmt.Fprintf(&b, "data[%dU] |= ((raw.%s & ((%s)0x%02xU << %dU)) >> %dU) << %dU;\n",
				step.byteIndex, name, unpackTy, step.mask, step.shiftInField, step.shiftInField, step.shiftInByte)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

func encodeBlock(msg message.Message) string {
	n := namer(msg)
	var b strings.Builder
	for _, swp := range msg.Signals() {
		sig := swp.Signal()
		name := n.normalizeSignalName(sig.Name())
		fmt.Fprintf(&b, "// Encode `%s`\nraw.%s = %s;\n\n", name, name, encodingExpression(sig, "dec."+name))
	}
	return strings.TrimSpace(b.String())
}

func txFnDef(msg message.Message) string {
	n := namer(msg)

	if msg.Kind() == message.KindRaw {
		return fmt.Sprintf(`bool %s(void) {
    uint8_t data[8] = {0};
    uint8_t len = 0;
    %s(data, &len);

    CAN_callback_enqueue_tx_message(data, len, 0x%XU);

    return true;
}`, n.txFnName(), n.txPopulateFnName(), msg.ID())
	}

	return fmt.Sprintf(`bool %s(void) {
    /* Call user-provided populate function */
    %s dec = {0};
    %s(&dec);

    /* ------- Encode signals ------- */
    %s raw = {0};

    %s

    /* ------- Pack signals ------- */
    uint8_t data[%d] = {0};

    %s

    /* ------- Send message ------- */
    CAN_callback_enqueue_tx_message(data, %d, 0x%XU);

    return true;
}`,
		n.txFnName(), n.structTy(), n.txPopulateFnName(),
		n.rawStructTy(), indent(encodeBlock(msg), 4),
		msg.Length(), indent(packBlock(msg), 4), msg.Length(), msg.ID(),
	)
}

func indent(s string, n int) string {
	if s == "" {
		return s
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
