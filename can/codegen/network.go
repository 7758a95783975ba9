// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opencan/opencan/can/errors"
	"github.com/opencan/opencan/can/message"
	"github.com/opencan/opencan/can/network"
)

// File is one generated source file: a name and its full contents.
type File struct {
	Name     string
	Contents string
}

// Options configures optional generated scaffolding (SPEC_FULL.md §10.3).
type Options struct {
	// RXCallbackStubs emits a weak, empty body for every RX callback that
	// has none, so a target node compiles out of the box.
	RXCallbackStubs bool
	// TXPopulateStubs emits a weak, empty body for every TX populate
	// function.
	TXPopulateStubs bool
}

const (
	rxHName        = "opencan_rx.h"
	rxCName        = "opencan_rx.c"
	txHName        = "opencan_tx.h"
	txCName        = "opencan_tx.c"
	templatesHName = "opencan_templates.h"
	callbacksHName = "opencan_callbacks.h"
)

// Generate renders the full C source bundle for node's view of net: the
// messages it transmits (opencan_tx.{h,c}), the messages it receives
// (opencan_rx.{h,c}), shared template definitions (opencan_templates.h),
// and the callback surface a node implementation fills in
// (opencan_callbacks.h). Generation is deterministic and has no side
// effects (spec.md §4.5).
//
// Fails with errors.NodeNotFound if node does not exist in net.
func Generate(net *network.Network, node string, opts Options) ([]File, error) {
	if _, ok := net.NodeByName(node); !ok {
		return nil, errors.NodeNotFound(node)
	}

	txMessages := net.MessagesByNode(node)
	rxMessages := net.RXMessagesByNode(node)

	sort.Slice(txMessages, func(i, j int) bool { return txMessages[i].Name() < txMessages[j].Name() })
	sort.Slice(rxMessages, func(i, j int) bool { return rxMessages[i].Name() < rxMessages[j].Name() })

	g := &generator{
		node:       node,
		txMessages: txMessages,
		rxMessages: rxMessages,
		opts:       opts,
	}

	return []File{
		{Name: rxHName, Contents: g.rxH()},
		{Name: rxCName, Contents: g.rxC()},
		{Name: txHName, Contents: g.txH()},
		{Name: txCName, Contents: g.txC()},
		{Name: templatesHName, Contents: g.templatesH()},
		{Name: callbacksHName, Contents: g.callbacksH()},
	}, nil
}

type generator struct {
	node       string
	txMessages []message.Message
	rxMessages []message.Message
	opts       Options
}

func (g *generator) prelude(filename string) string {
	return fmt.Sprintf(`/*
 * %s
 *
 * Generated for node `+"`%s`"+`. Do not edit by hand.
 */`, filename, g.node)
}

const commonIncludes = `#include <stdbool.h>
#include <stdint.h>
#include <stddef.h>`

func (g *generator) rxH() string {
	var b strings.Builder

	for _, msg := range g.rxMessages {
		n := namer(msg)
		fmt.Fprintf(&b, "/* RX Message: %s */\n", msg.Name())

		if msg.Kind() == message.KindRaw {
			fmt.Fprintf(&b, "bool %s(const uint8_t * data, uint_fast8_t len);\n", n.rxFnName())
			fmt.Fprintf(&b, "void %s(const uint8_t * const data, const uint8_t len);\n\n", n.rxCallbackFnName())
			continue
		}

		fmt.Fprintf(&b, "%s\n\n%s\n\n%s\n\n%s\n\nbool %s(const uint8_t * data, uint_fast8_t len);\n",
			signalEnums(msg), rawStructDef(msg), structDef(msg), getterFnDecls(msg), n.rxFnName())

		if _, hasCycletime := msg.Cycletime(); !hasCycletime {
			fmt.Fprintf(&b, "void %s(const %s * const raw, const %s * const dec);\n", n.rxCallbackFnName(), n.rawStructTy(), n.structTy())
		}
		b.WriteString("\n")
	}

	return fmt.Sprintf(`%s

#ifndef OPENCAN_RX_H
#define OPENCAN_RX_H

%s

#include "%s"

void CANRX_rxMessage(uint32_t id, uint8_t * data, uint8_t len);

typedef bool (*CANRX_rx_fn)(const uint8_t * data, uint_fast8_t len);
CANRX_rx_fn CANRX_idToRxFn(uint32_t id);

%s

%s

%s

#endif
`, g.prelude(rxHName), commonIncludes, templatesHName, strings.TrimSpace(b.String()), g.nodeOkFnDecls(), g.messageOkFnDecls())
}

func (g *generator) rxC() string {
	var b strings.Builder

	for _, msg := range g.rxMessages {
		n := namer(msg)
		fmt.Fprintf(&b, "/* RX Message: %s */\n", msg.Name())

		if msg.Kind() == message.KindRaw {
			fmt.Fprintf(&b, "%s\n", rxFnDef(msg, true))
			if g.opts.RXCallbackStubs {
				fmt.Fprintf(&b, "\n__attribute__((weak)) void %s(const uint8_t * const data, const uint8_t len) {\n    (void)data;\n    (void)len;\n}\n", n.rxCallbackFnName())
			}
			b.WriteString("\n")
			continue
		}

		_, hasCycletime := msg.Cycletime()

		fmt.Fprintf(&b, "static %s %s;\nstatic %s %s;\nstatic _Atomic uint64_t %s;\n\n%s\n\n%s\n",
			n.rawStructTy(), n.globalRawStructIdent(), n.structTy(), n.globalStructIdent(), n.rxTimestampIdent(),
			getterFnDefs(msg), rxFnDef(msg, !hasCycletime))

		if g.opts.RXCallbackStubs && !hasCycletime {
			fmt.Fprintf(&b, "\n__attribute__((weak)) void %s(const %s * const raw, const %s * const dec) {\n    (void)raw;\n    (void)dec;\n}\n",
				n.rxCallbackFnName(), n.rawStructTy(), n.structTy())
		}
		b.WriteString("\n")
	}

	return fmt.Sprintf(`%s

%s

#include "%s"
#include "%s"

void CANRX_rxMessage(const uint32_t id, uint8_t * const data, const uint8_t len) {
    const CANRX_rx_fn rx_fn = CANRX_idToRxFn(id);

    if (rx_fn) {
        rx_fn(data, len);
    }
}

%s

%s

%s

%s
`, g.prelude(rxCName), commonIncludes, rxHName, callbacksHName, g.idToRxFn(), strings.TrimSpace(b.String()), g.nodeOkFnDefs(), g.messageOkFnDefs())
}

func (g *generator) idToRxFn() string {
	var b strings.Builder
	for _, msg := range g.rxMessages {
		fmt.Fprintf(&b, "        case 0x%XU: return %s;\n", msg.ID(), namer(msg).rxFnName())
	}

	return fmt.Sprintf(`CANRX_rx_fn CANRX_idToRxFn(const uint32_t id) {
    switch (id) {
%s        default:
            return NULL;
    }
}`, b.String())
}

func (g *generator) txH() string {
	var b strings.Builder

	for _, msg := range g.txMessages {
		n := namer(msg)
		fmt.Fprintf(&b, "/* TX Message: %s */\n#define CAN_MSG_%s_ID 0x%XU\n\n", msg.Name(), msg.Name(), msg.ID())

		if msg.Kind() == message.KindRaw {
			fmt.Fprintf(&b, "void %s(uint8_t * const data, uint8_t * const len);\nbool %s(void);\n\n", n.txPopulateFnName(), n.txFnName())
			continue
		}

		fmt.Fprintf(&b, "%s\n\n%s\n\n%s\n\nvoid %s(%s * const m);\n\nbool %s(void);\n\n",
			signalEnums(msg), rawStructDef(msg), structDef(msg), n.txPopulateFnName(), n.structTy(), n.txFnName())
	}

	return fmt.Sprintf(`%s

#ifndef OPENCAN_TX_H
#define OPENCAN_TX_H

%s

#include "%s"

void CANTX_scheduler_1kHz(void);

%s

#endif
`, g.prelude(txHName), commonIncludes, templatesHName, strings.TrimSpace(b.String()))
}

func (g *generator) txC() string {
	var b strings.Builder

	for _, msg := range g.txMessages {
		n := namer(msg)
		fmt.Fprintf(&b, "/* TX Message: %s */\n\n%s\n", msg.Name(), txFnDef(msg))

		if g.opts.TXPopulateStubs {
			if msg.Kind() == message.KindRaw {
				fmt.Fprintf(&b, "\n__attribute__((weak)) void %s(uint8_t * const data, uint8_t * const len) {\n    (void)data;\n    *len = 0;\n}\n", n.txPopulateFnName())
			} else {
				fmt.Fprintf(&b, "\n__attribute__((weak)) void %s(%s * const m) {\n    (void)m;\n}\n", n.txPopulateFnName(), n.structTy())
			}
		}
		b.WriteString("\n")
	}

	return fmt.Sprintf(`%s

%s

#include "%s"
#include "%s"

%s

%s
`, g.prelude(txCName), commonIncludes, txHName, callbacksHName, g.txScheduler(), strings.TrimSpace(b.String()))
}

// txScheduler renders the 1kHz phase-shifted TX scheduler (spec.md §4.8):
// message i fires whenever (ms+i) % cycletime == 0. Per-message phase
// indices spread transmissions out across a cycle instead of bursting them
// all at ms == 0.
//
// The millisecond counter is checked before being incremented, so that at
// ms == 0 (the scheduler's first call) only the message at phase index 0
// fires; this resolves an ambiguity the distilled spec leaves implicit
// (DESIGN.md, "Open question resolutions").
func (g *generator) txScheduler() string {
	var b strings.Builder
	for idx, msg := range g.txMessages {
		cycletime, ok := msg.Cycletime()
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "if (((ms + %dU) %% %dU) == 0U) {\n    %s();\n}\n\n", idx, cycletime, namer(msg).txFnName())
	}

	return fmt.Sprintf(`void CANTX_scheduler_1kHz(void) {
    static uint32_t ms;

    %s
    ms++;
}`, indent(strings.TrimSpace(b.String()), 4))
}

func (g *generator) templatesH() string {
	seen := make(map[string]bool)
	var b strings.Builder

	for _, msg := range append(append([]message.Message{}, g.txMessages...), g.rxMessages...) {
		if msg.Kind() != message.KindFromTemplate {
			continue
		}
		t := msg.OriginTemplate()
		if seen[t] {
			continue
		}
		seen[t] = true

		// rawStructDef/structDef only point back here for an instance, so the
		// shared definitions are written out in full.
		n := namer(msg)
		var raw, dec strings.Builder
		for _, swp := range msg.Signals() {
			sig := swp.Signal()
			name := n.normalizeSignalName(sig.Name())
			fmt.Fprintf(&raw, "    _Atomic %s %s;\n", rawType(sig), name)
			fmt.Fprintf(&dec, "    _Atomic %s %s;\n", decodedType(sig), name)
		}
		fmt.Fprintf(&b, "/* Template: %s */\n\n%s\n\n%s {\n%s};\n\n%s {\n%s};\n\n",
			t, signalEnumsForTemplate(msg), n.rawStructTy(), raw.String(), n.structTy(), dec.String())
	}

	return fmt.Sprintf(`%s

#ifndef OPENCAN_TEMPLATES_H
#define OPENCAN_TEMPLATES_H

%s

%s

#endif
`, g.prelude(templatesHName), commonIncludes, strings.TrimSpace(b.String()))
}

// signalEnumsForTemplate renders a from-template message's enums as if it
// owned them directly: the template header is the one place they're
// actually defined.
func signalEnumsForTemplate(msg message.Message) string {
	var defs []string
	for _, swp := range msg.Signals() {
		if d := enumDef(swp.Signal()); d != "" {
			defs = append(defs, d)
		}
	}
	if len(defs) == 0 {
		return "/* (none for this template) */"
	}
	return strings.Join(defs, "\n\n")
}

func (g *generator) callbacksH() string {
	var b strings.Builder
	fmt.Fprintf(&b, "uint64_t CAN_callback_get_system_time(void);\n")
	fmt.Fprintf(&b, "void CAN_callback_enqueue_tx_message(const uint8_t * data, uint8_t len, uint32_t id);\n")

	return fmt.Sprintf(`%s

#ifndef OPENCAN_CALLBACKS_H
#define OPENCAN_CALLBACKS_H

%s

%s

#endif
`, g.prelude(callbacksHName), commonIncludes, b.String())
}
