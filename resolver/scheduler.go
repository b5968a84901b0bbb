/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package resolver

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/nabbar/printcore/config"
	"github.com/nabbar/printcore/errors"
	"github.com/nabbar/printcore/httpengine"
	"github.com/nabbar/printcore/ipp"
	loglib "github.com/nabbar/printcore/logger"
	libptc "github.com/nabbar/printcore/network/protocol"
	"github.com/nabbar/printcore/transport"
)

// schedulerDestinations performs op (CUPS-Get-Printers against the local
// scheduler, or Get-Printers against any IPP server) and returns every
// surfaced printer as an unmerged Destination, in the server's own order.
func schedulerDestinations(ctx context.Context, cfg config.Config, log loglib.Logger, op ipp.OperationID, requested []string) ([]Destination, errors.Error) {
	addr := cfg.SchedulerAddress()
	if addr == "" {
		return nil, ErrorNoScheduler.Error()
	}
	port := uint16(cfg.SchedulerPort())

	addrs, err := transport.OpenAddrList(ctx, libptc.NetworkTCP, addr, port)
	if err != nil {
		return nil, ErrorNoScheduler.Error(fmt.Errorf("resolve %s:%d: %w", addr, port, err))
	}

	conn := transport.NewClient(addr, log)
	if err := conn.Connect(ctx, addrs, 30000, nil); err != nil {
		return nil, ErrorNoScheduler.Error(fmt.Errorf("connect %s:%d: %w", addr, port, err))
	}
	defer func() { _ = conn.Close() }()

	engine := httpengine.NewConnection(conn, httpengine.EncryptionIfRequested, nil, log)

	payload := ipp.RequestBuilder{
		Operation:           op,
		RequestID:           1,
		RequestedAttributes: requested,
	}.Build()

	hdr := httpengine.NewTable(log)
	hdr.Set("Content-Type", ipp.ContentType)

	resp, herr := engine.Do(ctx, httpengine.Request{
		Method:     httpengine.MethodPost,
		URI:        "/",
		Headers:    hdr,
		Body:       bytes.NewReader(payload.Bytes()),
		BodyLength: int64(payload.Len()),
	}, "", "")
	if herr != nil {
		return nil, ErrorIPPRequest.Error(herr)
	}

	var body []byte
	if resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, ErrorIPPResponse.Error(err)
		}
	}

	parsed, perr := ipp.Parse(ipp.NewPayload(body))
	if perr != nil {
		return nil, ErrorIPPResponse.Error(perr)
	}

	var out []Destination
	for _, g := range parsed.Groups {
		name, ok := g.Get("printer-name")
		if !ok {
			continue
		}

		d := NewDestination(name, "")
		for _, opt := range g.Options {
			d.Set(opt.Name, opt.Value)
		}
		out = append(out, d)
	}

	return out, nil
}

// printerTypeOf returns the parsed printer-type bitmask a scheduler
// Destination carries, defaulting to 0.
func printerTypeOf(d Destination) Type {
	v, ok := d.Get(OptPrinterType)
	if !ok {
		return 0
	}
	return ParsePrinterType(v)
}
