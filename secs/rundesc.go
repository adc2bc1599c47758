// Package secs is the MUD catalogue (§6): the concrete Section payload
// types dispatched by the type registry in package catalog. Every type
// here is a plain client of catalog.Ops — none of it is special-cased by
// the engine.
package secs

import (
	"fmt"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/secid"
)

func init() {
	catalog.Register(secid.GenRunDescID, newOps(func() payload { return &GenRunDesc{} }))
	catalog.Register(secid.TriTiRunDescID, newOps(func() payload { return &TriTiRunDesc{} }))
}

// strSize reports the wire size of a length-prefixed string (§4.A).
func strSize(s string) uint32 { return 2 + uint32(len(s)) } //nolint:gosec

// GenRunDesc is the generic run description (GEN_RUN_DESC_ID, §6): the
// experiment metadata every MUD file's root group carries once.
type GenRunDesc struct {
	ExptNumber   uint32
	RunNumber    uint32
	TimeBegin    uint32
	TimeEnd      uint32
	ElapsedSec   uint32
	Title        string
	Lab          string
	Area         string
	Method       string
	Apparatus    string
	Insert       string
	Sample       string
	Orient       string
	Das          string
	Experimenter string
	Temperature  string
	Field        string
}

func (d *GenRunDesc) decode(buf *buffer.Buffer) (err error) {
	if d.ExptNumber, err = buf.ReadU32(); err != nil {
		return err
	}
	if d.RunNumber, err = buf.ReadU32(); err != nil {
		return err
	}
	if d.TimeBegin, err = buf.ReadU32(); err != nil {
		return err
	}
	if d.TimeEnd, err = buf.ReadU32(); err != nil {
		return err
	}
	if d.ElapsedSec, err = buf.ReadU32(); err != nil {
		return err
	}

	strs := []*string{
		&d.Title, &d.Lab, &d.Area, &d.Method, &d.Apparatus, &d.Insert,
		&d.Sample, &d.Orient, &d.Das, &d.Experimenter, &d.Temperature, &d.Field,
	}
	for _, s := range strs {
		if *s, err = buf.ReadStr(); err != nil {
			return err
		}
	}

	return nil
}

func (d *GenRunDesc) encode(buf *buffer.Buffer) error {
	buf.WriteU32(d.ExptNumber)
	buf.WriteU32(d.RunNumber)
	buf.WriteU32(d.TimeBegin)
	buf.WriteU32(d.TimeEnd)
	buf.WriteU32(d.ElapsedSec)

	strs := []string{
		d.Title, d.Lab, d.Area, d.Method, d.Apparatus, d.Insert,
		d.Sample, d.Orient, d.Das, d.Experimenter, d.Temperature, d.Field,
	}
	for _, s := range strs {
		if err := buf.WriteStr(s); err != nil {
			return err
		}
	}

	return nil
}

func (d *GenRunDesc) size() uint32 {
	size := uint32(5 * 4)
	for _, s := range []string{
		d.Title, d.Lab, d.Area, d.Method, d.Apparatus, d.Insert,
		d.Sample, d.Orient, d.Das, d.Experimenter, d.Temperature, d.Field,
	} {
		size += strSize(s)
	}

	return size
}

// TriTiRunDesc is the TRI-TI variant of the run description
// (TRI_TI_RUN_DESC_ID, §6): identical to GenRunDesc except the last two
// string fields are replaced with a subtitle and three free-form comments.
type TriTiRunDesc struct {
	ExptNumber   uint32
	RunNumber    uint32
	TimeBegin    uint32
	TimeEnd      uint32
	ElapsedSec   uint32
	Title        string
	Lab          string
	Area         string
	Method       string
	Apparatus    string
	Insert       string
	Sample       string
	Orient       string
	Das          string
	Experimenter string
	Subtitle     string
	Comment1     string
	Comment2     string
	Comment3     string
}

func (d *TriTiRunDesc) decode(buf *buffer.Buffer) (err error) {
	if d.ExptNumber, err = buf.ReadU32(); err != nil {
		return err
	}
	if d.RunNumber, err = buf.ReadU32(); err != nil {
		return err
	}
	if d.TimeBegin, err = buf.ReadU32(); err != nil {
		return err
	}
	if d.TimeEnd, err = buf.ReadU32(); err != nil {
		return err
	}
	if d.ElapsedSec, err = buf.ReadU32(); err != nil {
		return err
	}

	strs := []*string{
		&d.Title, &d.Lab, &d.Area, &d.Method, &d.Apparatus, &d.Insert,
		&d.Sample, &d.Orient, &d.Das, &d.Experimenter,
		&d.Subtitle, &d.Comment1, &d.Comment2, &d.Comment3,
	}
	for _, s := range strs {
		if *s, err = buf.ReadStr(); err != nil {
			return err
		}
	}

	return nil
}

func (d *TriTiRunDesc) encode(buf *buffer.Buffer) error {
	buf.WriteU32(d.ExptNumber)
	buf.WriteU32(d.RunNumber)
	buf.WriteU32(d.TimeBegin)
	buf.WriteU32(d.TimeEnd)
	buf.WriteU32(d.ElapsedSec)

	strs := []string{
		d.Title, d.Lab, d.Area, d.Method, d.Apparatus, d.Insert,
		d.Sample, d.Orient, d.Das, d.Experimenter,
		d.Subtitle, d.Comment1, d.Comment2, d.Comment3,
	}
	for _, s := range strs {
		if err := buf.WriteStr(s); err != nil {
			return err
		}
	}

	return nil
}

func (d *TriTiRunDesc) size() uint32 {
	size := uint32(5 * 4)
	for _, s := range []string{
		d.Title, d.Lab, d.Area, d.Method, d.Apparatus, d.Insert,
		d.Sample, d.Orient, d.Das, d.Experimenter,
		d.Subtitle, d.Comment1, d.Comment2, d.Comment3,
	} {
		size += strSize(s)
	}

	return size
}

func (d *GenRunDesc) show() string { return fmt.Sprintf("<GenRunDesc run=%d title=%q>", d.RunNumber, d.Title) }

func (d *TriTiRunDesc) show() string {
	return fmt.Sprintf("<TriTiRunDesc run=%d title=%q>", d.RunNumber, d.Title)
}
