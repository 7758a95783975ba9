// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opencan/opencan/can/message"
)

// Liveness predicates let a node ask "have I heard from X recently" without
// tracking timestamps itself (spec.md §4.9-§4.10, grounded on
// original_source/codegen/src/{message_ok,node_ok}.rs). A message is "ok"
// if it has ever been received and the most recent reception was within
// its cycle time plus a 100us tolerance for scheduling jitter.

func messageOkFnName(msg message.Message) string {
	return fmt.Sprintf("CANRX_is_message_%s_ok", msg.Name())
}

func nodeOkFnName(node string) string {
	return fmt.Sprintf("CANRX_is_node_%s_ok", node)
}

func (g *generator) messageOkFnDecls() string {
	var decls []string
	for _, msg := range g.rxMessages {
		if _, ok := msg.Cycletime(); !ok {
			continue
		}
		decls = append(decls, fmt.Sprintf("bool %s(void);", messageOkFnName(msg)))
	}
	sort.Strings(decls)
	return strings.Join(decls, "\n")
}

func (g *generator) messageOkFnDefs() string {
	var defs []string
	for _, msg := range g.rxMessages {
		cycletime, ok := msg.Cycletime()
		if !ok {
			continue
		}
		n := namer(msg)
		defs = append(defs, fmt.Sprintf(`bool %s(void) {
    /* Check that message has been received (ever) and is on time. */
    const uint64_t current_time = CAN_callback_get_system_time();
    const uint64_t timestamp = %s;

    if (timestamp != 0U && (current_time - timestamp) <= (%dU * 1000U + 100U)) {
        return true;
    }

    return false;
}`, messageOkFnName(msg), n.rxTimestampIdent(), cycletime))
	}
	sort.Strings(defs)
	return strings.Join(defs, "\n\n")
}

func (g *generator) nodeOkFnDecls() string {
	seen := make(map[string]bool)
	var nodes []string
	for _, msg := range g.rxMessages {
		txNode, ok := msg.TXNode()
		if !ok || seen[txNode] {
			continue
		}
		seen[txNode] = true
		nodes = append(nodes, txNode)
	}
	sort.Strings(nodes)

	decls := make([]string, len(nodes))
	for i, node := range nodes {
		decls[i] = fmt.Sprintf("bool %s(void);", nodeOkFnName(node))
	}
	return strings.Join(decls, "\n")
}

func (g *generator) nodeOkFnDefs() string {
	byNode := make(map[string][]message.Message)
	var nodes []string
	for _, msg := range g.rxMessages {
		txNode, ok := msg.TXNode()
		if !ok {
			continue
		}
		if _, seen := byNode[txNode]; !seen {
			nodes = append(nodes, txNode)
			byNode[txNode] = nil
		}
		if _, ok := msg.Cycletime(); !ok {
			continue
		}
		byNode[txNode] = append(byNode[txNode], msg)
	}
	sort.Strings(nodes)

	var defs []string
	for _, node := range nodes {
		msgs := byNode[node]

		var timestamps, checks []string
		for _, msg := range msgs {
			cycletime, _ := msg.Cycletime()
			n := namer(msg)
			timestamps = append(timestamps, fmt.Sprintf("const uint64_t timestamp_%s = %s;", msg.Name(), n.rxTimestampIdent()))
			checks = append(checks, fmt.Sprintf("timestamp_%s != 0U && (current_time - timestamp_%s) <= (%dU * 1000U + 100U)", msg.Name(), msg.Name(), cycletime))
		}

		if len(checks) == 0 {
			defs = append(defs, fmt.Sprintf(`bool %s(void) {
    /* No messages received from node `+"`%s`"+` with a cycletime. */
    return true;
}`, nodeOkFnName(node), node))
			continue
		}

		defs = append(defs, fmt.Sprintf(`bool %s(void) {
    const uint64_t current_time = CAN_callback_get_system_time();

    %s

    if (
        %s
    ) {
        return true;
    }

    return false;
}`, nodeOkFnName(node), strings.Join(timestamps, "\n"), strings.Join(checks, " &&\n        ")))
	}

	return strings.Join(defs, "\n\n")
}
