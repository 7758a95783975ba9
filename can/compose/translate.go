// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package compose

import (
	"fmt"

	"github.com/opencan/opencan/can/errors"
	"github.com/opencan/opencan/can/message"
	"github.com/opencan/opencan/can/network"
	"github.com/opencan/opencan/can/signal"
)

// IntoNetwork translates a parsed Desc into a validated network.Network.
// Every failure is wrapped with the name of the node/message/signal/
// template being translated, so the rendered error chain (can/errors.Chain)
// reads top-down from "could not build node X" to the precise construction
// failure, the way original_source/compose/src/translation.rs's anyhow
// .context() chains do.
func (d Desc) IntoNetwork() (*network.Network, error) {
	net := network.New()

	templates := make(map[string]message.Template, len(d.Templates))
	for _, t := range d.Templates {
		tmpl, err := t.Value.intoTemplate(t.Name)
		if err != nil {
			return nil, errors.Wrap(errors.New(fmt.Sprintf("could not build template `%s`", t.Name)), err)
		}
		templates[t.Name] = tmpl
	}

	for _, n := range d.Nodes {
		if err := addNode(net, n.Name, n.Value, templates); err != nil {
			return nil, errors.Wrap(errors.New(fmt.Sprintf("could not build node `%s`", n.Name)), err)
		}
	}

	return net, nil
}

func addNode(net *network.Network, nodeName string, yn YNode, templates map[string]message.Template) error {
	if err := net.AddNode(nodeName); err != nil {
		return err
	}

	for _, m := range yn.Messages {
		fullName := fmt.Sprintf("%s_%s", nodeName, m.Name)

		msg, err := m.Value.intoMessage(fullName, nodeName, templates)
		if err != nil {
			return errors.Wrap(errors.New(fmt.Sprintf("could not build message `%s`", m.Name)), err)
		}

		if err := net.InsertMsg(msg); err != nil {
			return err
		}
	}

	for _, rxName := range yn.RX {
		if err := net.AddRX(rxName, nodeName); err != nil {
			return err
		}
	}

	return nil
}

func (t YTemplate) intoTemplate(name string) (message.Template, error) {
	tb := message.NewTemplateBuilder(name)

	for _, s := range t.Signals {
		sig, err := s.Value.intoSignal(s.Name)
		if err != nil {
			return message.Template{}, errors.Wrap(errors.New(fmt.Sprintf("could not create signal `%s`", s.Name)), err)
		}

		var addErr error
		if s.Value.StartBit != nil {
			tb, addErr = tb.AddSignalFixed(*s.Value.StartBit, sig)
		} else {
			tb, addErr = tb.AddSignal(sig)
		}
		if addErr != nil {
			return message.Template{}, errors.Wrap(errors.New(fmt.Sprintf("could not add signal `%s` to template `%s`", s.Name, name)), addErr)
		}
	}

	return tb.Build()
}

func (m YMessage) intoMessage(fullName, nodeName string, templates map[string]message.Template) (message.Message, error) {
	if m.FromTemplate != "" {
		tmpl, ok := templates[m.FromTemplate]
		if !ok {
			return message.Message{}, errors.TemplateNotFound(m.FromTemplate)
		}

		return tmpl.Instance(fullName, m.ID, m.CycletimeMs, m.SignalPrefix, nodeName)
	}

	b := message.NewBuilder(fullName, m.ID).TXNode(nodeName)
	if m.CycletimeMs != nil {
		b = b.Cycletime(*m.CycletimeMs)
	}
	if m.Raw {
		b = b.Raw()
	}

	for _, s := range m.Signals {
		fullSigName := fmt.Sprintf("%s_%s", nodeName, s.Name)

		sig, err := s.Value.intoSignal(fullSigName)
		if err != nil {
			return message.Message{}, errors.Wrap(errors.New(fmt.Sprintf("could not create signal `%s` while composing message `%s`", s.Name, fullName)), err)
		}

		var addErr error
		if s.Value.StartBit != nil {
			b, addErr = b.AddSignalFixed(*s.Value.StartBit, sig)
		} else {
			b, addErr = b.AddSignal(sig)
		}
		if addErr != nil {
			return message.Message{}, errors.Wrap(errors.New(fmt.Sprintf("could not add signal `%s` to message `%s`", s.Name, fullName)), addErr)
		}
	}

	return b.Build()
}

func (s YSignal) intoSignal(name string) (signal.Signal, error) {
	b := signal.NewBuilder(name).
		Description(s.Description).
		TwosComplement(s.TwosComplement)

	if s.Scale != nil {
		b = b.Scale(*s.Scale)
	}
	if s.Offset != nil {
		b = b.Offset(*s.Offset)
	}

	for _, e := range s.EnumeratedValues {
		var err error
		if e.Value.isExact {
			b, err = b.AddEnumeratedValue(e.Name, e.Value.exact)
		} else if e.Value.literal == "auto" {
			b, err = b.AddEnumeratedValueInferred(e.Name)
		} else {
			return signal.Signal{}, errors.InvalidEnumeratedValueDirective(e.Value.literal, e.Name)
		}
		if err != nil {
			return signal.Signal{}, err
		}
	}

	var err error
	if s.Width != nil {
		b = b.Width(*s.Width)
	} else {
		b, err = b.InferWidthStrict()
		if err != nil {
			return signal.Signal{}, err
		}
	}

	return b.Build()
}
