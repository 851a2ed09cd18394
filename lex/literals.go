package lex

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"
	"github.com/wyrmlang/wyrmcore/cell"
)

func setInteger(c *cell.Cell, text []byte) error {
	v, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "lex: malformed integer %q", text)
	}
	c.SetInt64(v)
	return nil
}

func setDecimal(c *cell.Cell, text []byte) error {
	v, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return errors.Wrapf(err, "lex: malformed decimal %q", text)
	}
	c.SetDecimal(v)
	return nil
}

func setPercent(c *cell.Cell, text []byte) error {
	body := text[:len(text)-1] // drop trailing '%'
	v, err := strconv.ParseFloat(string(body), 64)
	if err != nil {
		return errors.Wrapf(err, "lex: malformed percent %q", text)
	}
	c.SetPercent(v / 100)
	return nil
}

func setMoney(c *cell.Cell, text []byte) error {
	body := text
	if len(body) > 0 && body[0] == '$' {
		body = body[1:]
	}
	v, err := strconv.ParseFloat(string(body), 64)
	if err != nil {
		return errors.Wrapf(err, "lex: malformed money %q", text)
	}
	c.SetMoney(int64(v*100 + 0.5))
	return nil
}

func setPair(c *cell.Cell, text []byte) error {
	idx := bytes.IndexAny(text, "xX")
	if idx < 0 {
		return errors.Errorf("lex: malformed pair %q", text)
	}
	x, err := strconv.ParseFloat(string(text[:idx]), 32)
	if err != nil {
		return errors.Wrapf(err, "lex: malformed pair x %q", text)
	}
	y, err := strconv.ParseFloat(string(text[idx+1:]), 32)
	if err != nil {
		return errors.Wrapf(err, "lex: malformed pair y %q", text)
	}
	c.SetPair(float32(x), float32(y))
	return nil
}

func setTuple(c *cell.Cell, text []byte) error {
	parts := bytes.Split(text, []byte("."))
	if len(parts) > 8 {
		return errors.Errorf("lex: tuple %q exceeds 8 components", text)
	}
	bs := make([]byte, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(string(p))
		if err != nil || n < 0 || n > 255 {
			return errors.Errorf("lex: malformed tuple component %q", p)
		}
		bs[i] = byte(n)
	}
	c.SetTuple(bs)
	return nil
}

func setTime(c *cell.Cell, text []byte) error {
	neg := false
	if len(text) > 0 && text[0] == '-' {
		neg = true
		text = text[1:]
	}
	parts := bytes.Split(text, []byte(":"))
	if len(parts) < 2 || len(parts) > 3 {
		return errors.Errorf("lex: malformed time %q", text)
	}
	h, err := strconv.Atoi(string(parts[0]))
	if err != nil {
		return errors.Wrapf(err, "lex: malformed time hour %q", text)
	}
	min, err := strconv.Atoi(string(parts[1]))
	if err != nil {
		return errors.Wrapf(err, "lex: malformed time minute %q", text)
	}
	var sec float64
	if len(parts) == 3 {
		sec, err = strconv.ParseFloat(string(parts[2]), 64)
		if err != nil {
			return errors.Wrapf(err, "lex: malformed time second %q", text)
		}
	}
	nanos := int64(h)*3600e9 + int64(min)*60e9 + int64(sec*1e9)
	if neg {
		nanos = -nanos
	}
	c.SetTime(nanos)
	return nil
}
