package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/internal/crypto/ecdsa"
	"github.com/smallyu/go-ecc/internal/crypto/elgamal"
	"github.com/smallyu/go-ecc/internal/ecdh"
	"github.com/smallyu/go-ecc/internal/encoding/der"
	"github.com/smallyu/go-ecc/internal/encoding/pem"
	"github.com/smallyu/go-ecc/pkg/ecc"
	"github.com/smallyu/go-ecc/pkg/ecc/logging"
)

func privkeyFlag() cli.Flag {
	return &cli.StringFlag{Name: "privkey", Aliases: []string{"k"}, Usage: "private key file", Required: true}
}

func pubkeyFlag() cli.Flag {
	return &cli.StringFlag{Name: "pubkey", Aliases: []string{"k"}, Usage: "public key file", Required: true}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "input file (default: stdin)"}
}

func derFlag() cli.Flag {
	return &cli.BoolFlag{Name: "der", Usage: "Bitcoin DER signature (secp256k1 only)"}
}

func (e *env) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "curves",
			Usage:  "list the known curves",
			Action: e.listCurves,
		},
		{
			Name:   "ecdh-gen",
			Usage:  "generate a private key on the configured curve",
			Action: e.ecdhGen,
		},
		{
			Name:  "ecdh-pub",
			Usage: "derive the public key of a private key",
			Flags: []cli.Flag{
				fileFlag(),
				&cli.BoolFlag{Name: "raw", Usage: "print the native hex encoding (secp256k1, Ed25519, Curve25519)"},
			},
			Action: e.ecdhPub,
		},
		{
			Name:   "ecdh-enc",
			Usage:  "encrypt input to a public key",
			Flags:  []cli.Flag{pubkeyFlag(), fileFlag()},
			Action: e.ecdhEnc,
		},
		{
			Name:   "ecdh-dec",
			Usage:  "decrypt a message with a private key",
			Flags:  []cli.Flag{privkeyFlag(), fileFlag()},
			Action: e.ecdhDec,
		},
		{
			Name:   "ecdsa-sign",
			Usage:  "sign input with a private key",
			Flags:  []cli.Flag{privkeyFlag(), fileFlag(), derFlag()},
			Action: e.ecdsaSign,
		},
		{
			Name:   "ecdsa-verify",
			Usage:  "verify a signed message and print its payload",
			Flags:  []cli.Flag{pubkeyFlag(), fileFlag(), derFlag()},
			Action: e.ecdsaVerify,
		},
		{
			Name:   "elgamal-enc",
			Usage:  "encrypt a point, given as a public key, to a public key",
			Flags:  []cli.Flag{pubkeyFlag(), fileFlag()},
			Action: e.elgamalEnc,
		},
		{
			Name:   "elgamal-dec",
			Usage:  "decrypt an EC-ElGamal message into a public key block",
			Flags:  []cli.Flag{privkeyFlag(), fileFlag()},
			Action: e.elgamalDec,
		},
	}
}

func (e *env) input(c *cli.Context) ([]byte, error) {
	if path := c.String("file"); path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(e.stdin)
}

func (e *env) unwrapFile(path, label string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	body, _, err := pem.Unwrap(label, data)
	return body, err
}

func (e *env) loadPrivateKey(path string) (*curves.Curve, *big.Int, error) {
	body, err := e.unwrapFile(path, pem.LabelPrivateKey)
	if err != nil {
		return nil, nil, err
	}
	return der.ParsePrivateKey(body)
}

func (e *env) loadPublicKey(path string) (*curves.Point, error) {
	body, err := e.unwrapFile(path, pem.LabelPublicKey)
	if err != nil {
		return nil, err
	}
	return der.ParsePublicKey(body)
}

func (e *env) emit(label string, body []byte, err error) error {
	if err != nil {
		return err
	}
	_, err = e.stdout.Write(pem.Wrap(label, body))
	return err
}

func (e *env) listCurves(c *cli.Context) error {
	w := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tBITS")
	for _, name := range e.reg.Names() {
		cv, err := e.reg.ByName(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", name, cv.Model(), cv.Bits())
	}
	return w.Flush()
}

func (e *env) ecdhGen(c *cli.Context) error {
	curve, err := e.reg.ByName(e.cfg.Curve)
	if err != nil {
		return err
	}
	priv, _, err := ecdh.GenerateKey(curve)
	if err != nil {
		return err
	}
	e.log.Info(c.Context, "generated private key", "curve", curve.String(), logging.Redacted("privkey"))
	body, err := der.MarshalPrivateKey(curve, priv)
	return e.emit(pem.LabelPrivateKey, body, err)
}

func (e *env) ecdhPub(c *cli.Context) error {
	data, err := e.input(c)
	if err != nil {
		return err
	}
	body, _, err := pem.Unwrap(pem.LabelPrivateKey, data)
	if err != nil {
		return err
	}
	curve, priv, err := der.ParsePrivateKey(body)
	if err != nil {
		return err
	}
	pub := curve.ScalarBaseMult(priv)
	if c.Bool("raw") {
		raw, err := nativeEncoding(pub)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.stdout, hex.EncodeToString(raw))
		return err
	}
	out, err := der.MarshalPublicKey(pub)
	return e.emit(pem.LabelPublicKey, out, err)
}

// nativeEncoding returns the key bytes other libraries use for the curves
// that have one.
func nativeEncoding(pub *curves.Point) ([]byte, error) {
	if pk, err := pub.ToSecp256k1(); err == nil {
		return pk.SerializeCompressed(), nil
	} else if !errors.Is(err, ecc.ErrCurveMismatch) {
		return nil, err
	}
	if q, err := pub.ToEdwards25519(); err == nil {
		return q.Bytes(), nil
	} else if !errors.Is(err, ecc.ErrCurveMismatch) {
		return nil, err
	}
	k, err := pub.ToX25519()
	if err != nil {
		return nil, err
	}
	return k[:], nil
}

func (e *env) ecdhEnc(c *cli.Context) error {
	pub, err := e.loadPublicKey(c.String("pubkey"))
	if err != nil {
		return err
	}
	plaintext, err := e.input(c)
	if err != nil {
		return err
	}
	msg, err := ecdh.Seal(pub, plaintext)
	if err != nil {
		return err
	}
	e.log.Debug(c.Context, "sealed message", "curve", pub.Curve().String(), "bytes", len(plaintext))
	body, err := der.MarshalECDHMessage(msg)
	return e.emit(pem.LabelECDHMessage, body, err)
}

func (e *env) ecdhDec(c *cli.Context) error {
	curve, priv, err := e.loadPrivateKey(c.String("privkey"))
	if err != nil {
		return err
	}
	data, err := e.input(c)
	if err != nil {
		return err
	}
	body, _, err := pem.Unwrap(pem.LabelECDHMessage, data)
	if err != nil {
		return err
	}
	msg, err := der.ParseECDHMessage(curve, body)
	if err != nil {
		return err
	}
	plaintext, err := ecdh.Open(curve, priv, msg)
	if err != nil {
		return err
	}
	_, err = e.stdout.Write(plaintext)
	return err
}

func (e *env) scheme(curve *curves.Curve) (*ecdsa.Scheme, error) {
	h, err := ecc.HashByName(e.cfg.Hash)
	if err != nil {
		return nil, err
	}
	return ecdsa.NewScheme(curve, h), nil
}

func (e *env) ecdsaSign(c *cli.Context) error {
	curve, priv, err := e.loadPrivateKey(c.String("privkey"))
	if err != nil {
		return err
	}
	msg, err := e.input(c)
	if err != nil {
		return err
	}
	if len(msg) == 0 {
		return cli.Exit("ecdsa-sign: empty input", 1)
	}
	scheme, err := e.scheme(curve)
	if err != nil {
		return err
	}
	sig, err := scheme.Sign(priv, msg)
	if err != nil {
		return err
	}
	raw := sig.Bytes()
	if c.Bool("der") {
		if raw, err = sig.SerializeDER(); err != nil {
			return err
		}
	}
	if err := e.emit(pem.LabelSignedMessage, msg, nil); err != nil {
		return err
	}
	return e.emit(pem.LabelSignature, raw, nil)
}

func (e *env) ecdsaVerify(c *cli.Context) error {
	pub, err := e.loadPublicKey(c.String("pubkey"))
	if err != nil {
		return err
	}
	data, err := e.input(c)
	if err != nil {
		return err
	}
	msg, err := pem.Find(pem.LabelSignedMessage, data)
	if err != nil {
		return err
	}
	raw, err := pem.Find(pem.LabelSignature, data)
	if err != nil {
		return err
	}
	scheme, err := e.scheme(pub.Curve())
	if err != nil {
		return err
	}
	var sig *ecdsa.Signature
	if c.Bool("der") {
		sig, err = ecdsa.ParseDERSignature(pub.Curve(), raw)
	} else {
		sig, err = scheme.ParseSignature(raw)
	}
	if err != nil {
		return err
	}

	if !scheme.Verify(pub, msg, sig) {
		color.New(color.FgRed, color.Bold).Fprintln(e.stderr, "signature verification FAILED")
		return cli.Exit("", 1)
	}
	color.New(color.FgGreen).Fprintln(e.stderr, "signature OK")
	_, err = e.stdout.Write(msg)
	return err
}

func (e *env) elgamalEnc(c *cli.Context) error {
	pub, err := e.loadPublicKey(c.String("pubkey"))
	if err != nil {
		return err
	}
	data, err := e.input(c)
	if err != nil {
		return err
	}
	body, _, err := pem.Unwrap(pem.LabelPublicKey, data)
	if err != nil {
		return err
	}
	m, err := der.ParsePublicKey(body)
	if err != nil {
		return err
	}
	ct, err := elgamal.Encrypt(pub, m)
	if err != nil {
		return err
	}
	out, err := der.MarshalCiphertext(ct)
	return e.emit(pem.LabelElGamalMessage, out, err)
}

func (e *env) elgamalDec(c *cli.Context) error {
	curve, priv, err := e.loadPrivateKey(c.String("privkey"))
	if err != nil {
		return err
	}
	data, err := e.input(c)
	if err != nil {
		return err
	}
	body, _, err := pem.Unwrap(pem.LabelElGamalMessage, data)
	if err != nil {
		return err
	}
	ct, err := der.ParseCiphertext(body)
	if err != nil {
		return err
	}
	if !ct.Curve().Equal(curve) {
		return ecc.NewError("elgamal-dec", "key and message curves differ", ecc.ErrCurveMismatch)
	}
	out, err := der.MarshalPublicKey(ct.Decrypt(priv))
	return e.emit(pem.LabelPublicKey, out, err)
}
