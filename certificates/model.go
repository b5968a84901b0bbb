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

package certificates

import (
	"crypto/tls"
	"io"

	tlsaut "github.com/nabbar/printcore/certificates/auth"
	tlscas "github.com/nabbar/printcore/certificates/ca"
	tlscrt "github.com/nabbar/printcore/certificates/certs"
	tlscpr "github.com/nabbar/printcore/certificates/cipher"
	tlscrv "github.com/nabbar/printcore/certificates/curves"
	tlsvrs "github.com/nabbar/printcore/certificates/tlsversion"
)

// config is the concrete implementation of TLSConfig. Its fields are laid
// out across this file and rootca.go, cert.go, authClient.go, curves.go,
// each owning the methods for one concern.
type config struct {
	rand                  io.Reader
	cert                  []tlscrt.Cert
	cipherList            []tlscpr.Cipher
	curveList             []tlscrv.Curves
	caRoot                []tlscas.Cert
	clientAuth            tlsaut.ClientAuth
	clientCA              []tlscas.Cert
	tlsMinVersion         tlsvrs.Version
	tlsMaxVersion         tlsvrs.Version
	dynSizingDisabled     bool
	ticketSessionDisabled bool
}

func (o *config) RegisterRand(rand io.Reader) {
	o.rand = rand
}

func (o *config) SetVersionMin(v tlsvrs.Version) {
	o.tlsMinVersion = v
}

func (o *config) GetVersionMin() tlsvrs.Version {
	return o.tlsMinVersion
}

func (o *config) SetVersionMax(v tlsvrs.Version) {
	o.tlsMaxVersion = v
}

func (o *config) GetVersionMax() tlsvrs.Version {
	return o.tlsMaxVersion
}

func (o *config) SetCipherList(c []tlscpr.Cipher) {
	o.cipherList = make([]tlscpr.Cipher, 0)
	o.AddCiphers(c...)
}

func (o *config) AddCiphers(c ...tlscpr.Cipher) {
	o.cipherList = append(o.cipherList, c...)
}

func (o *config) GetCiphers() []tlscpr.Cipher {
	var res = make([]tlscpr.Cipher, 0)

	for _, i := range o.cipherList {
		if tlscpr.Check(i.Uint16()) {
			res = append(res, i)
		}
	}

	return res
}

func (o *config) SetDynamicSizingDisabled(flag bool) {
	o.dynSizingDisabled = flag
}

func (o *config) SetSessionTicketDisabled(flag bool) {
	o.ticketSessionDisabled = flag
}

func (o *config) Clone() TLSConfig {
	var n = &config{
		rand:                  o.rand,
		clientAuth:            o.clientAuth,
		tlsMinVersion:         o.tlsMinVersion,
		tlsMaxVersion:         o.tlsMaxVersion,
		dynSizingDisabled:     o.dynSizingDisabled,
		ticketSessionDisabled: o.ticketSessionDisabled,
	}

	n.cert = append(make([]tlscrt.Cert, 0), o.cert...)
	n.cipherList = append(make([]tlscpr.Cipher, 0), o.cipherList...)
	n.curveList = append(make([]tlscrv.Curves, 0), o.curveList...)
	n.caRoot = append(make([]tlscas.Cert, 0), o.caRoot...)
	n.clientCA = append(make([]tlscas.Cert, 0), o.clientCA...)

	return n
}

// TLS builds a *tls.Config ready to use as either client or server
// configuration. serverName sets tls.Config.ServerName for client use; it
// is ignored for the server-side fields.
func (o *config) TLS(serverName string) *tls.Config {
	var cfg = &tls.Config{
		ServerName:                  serverName,
		Rand:                        o.rand,
		RootCAs:                     o.GetRootCAPool(),
		ClientCAs:                   o.GetClientCAPool(),
		ClientAuth:                  o.clientAuth.TLS(),
		Certificates:                o.GetCertificatePair(),
		MinVersion:                  o.tlsMinVersion.TLS(),
		MaxVersion:                  o.tlsMaxVersion.TLS(),
		DynamicRecordSizingDisabled: o.dynSizingDisabled,
		SessionTicketsDisabled:      o.ticketSessionDisabled,
	}

	if len(o.cipherList) > 0 {
		cfg.CipherSuites = make([]uint16, 0, len(o.cipherList))
		for _, c := range o.cipherList {
			cfg.CipherSuites = append(cfg.CipherSuites, c.TLS())
		}
	}

	if len(o.curveList) > 0 {
		cfg.CurvePreferences = make([]tls.CurveID, 0, len(o.curveList))
		for _, c := range o.curveList {
			cfg.CurvePreferences = append(cfg.CurvePreferences, c.TLS())
		}
	}

	return cfg
}

// TlsConfig is an alias of TLS kept for backward compatible call sites.
func (o *config) TlsConfig(serverName string) *tls.Config {
	return o.TLS(serverName)
}

func (o *config) Config() *Config {
	var res = &Config{
		VersionMin:           o.tlsMinVersion,
		VersionMax:           o.tlsMaxVersion,
		AuthClient:           o.clientAuth,
		DynamicSizingDisable: o.dynSizingDisabled,
		SessionTicketDisable: o.ticketSessionDisabled,
		CurveList:            append(make([]tlscrv.Curves, 0), o.curveList...),
		CipherList:           append(make([]tlscpr.Cipher, 0), o.cipherList...),
		RootCA:               append(make([]tlscas.Cert, 0), o.caRoot...),
		ClientCA:             append(make([]tlscas.Cert, 0), o.clientCA...),
	}

	for _, c := range o.cert {
		res.Certs = append(res.Certs, c.Model())
	}

	return res
}
