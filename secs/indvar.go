package secs

import (
	"fmt"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/muderr"
	"github.com/mudformat/mud/secid"
)

func init() {
	catalog.Register(secid.GenIndVarID, newOps(func() payload { return &IndVar{} }))
	catalog.Register(secid.GenIndVarArrID, newOps(func() payload { return &IndVarArray{} }))
}

// IndVar is GEN_IND_VAR_ID (§6): summary statistics for one independent
// variable (temperature, field, etc.) recorded during a run.
type IndVar struct {
	Low         float64
	High        float64
	Mean        float64
	StdDev      float64
	Skewness    float64
	Name        string
	Description string
	Units       string
}

func (v *IndVar) decodeStats(buf *buffer.Buffer) (err error) {
	floats := []*float64{&v.Low, &v.High, &v.Mean, &v.StdDev, &v.Skewness}
	for _, f := range floats {
		if *f, err = buf.ReadF64(); err != nil {
			return err
		}
	}
	if v.Name, err = buf.ReadStr(); err != nil {
		return err
	}
	if v.Description, err = buf.ReadStr(); err != nil {
		return err
	}
	v.Units, err = buf.ReadStr()

	return err
}

func (v *IndVar) encodeStats(buf *buffer.Buffer) error {
	for _, f := range []float64{v.Low, v.High, v.Mean, v.StdDev, v.Skewness} {
		buf.WriteF64(f)
	}
	if err := buf.WriteStr(v.Name); err != nil {
		return err
	}
	if err := buf.WriteStr(v.Description); err != nil {
		return err
	}

	return buf.WriteStr(v.Units)
}

func (v *IndVar) statsSize() uint32 {
	return 5*8 + strSize(v.Name) + strSize(v.Description) + strSize(v.Units)
}

func (v *IndVar) decode(buf *buffer.Buffer) error { return v.decodeStats(buf) }
func (v *IndVar) encode(buf *buffer.Buffer) error { return v.encodeStats(buf) }
func (v *IndVar) size() uint32                    { return v.statsSize() }

func (v *IndVar) show() string {
	return fmt.Sprintf("<IndVar %q mean=%v>", v.Name, v.Mean)
}

// IndVarArray is GEN_IND_VAR_ARR_ID (§6): an IndVar's summary statistics
// plus the raw sampled data, optionally paired with per-sample timestamps.
type IndVarArray struct {
	IndVar
	ElemSize uint32
	DataType uint32
	HasTime  bool
	Data     []byte     // ElemSize * NumData bytes
	TimeData []uint32   // present iff HasTime; len == NumData
}

// NumData reports the element count implied by Data and ElemSize.
func (a *IndVarArray) NumData() uint32 {
	if a.ElemSize == 0 {
		return 0
	}

	return uint32(len(a.Data)) / a.ElemSize //nolint:gosec
}

func (a *IndVarArray) decode(buf *buffer.Buffer) (err error) {
	if err := a.decodeStats(buf); err != nil {
		return err
	}

	numData, err := buf.ReadU32()
	if err != nil {
		return err
	}
	if a.ElemSize, err = buf.ReadU32(); err != nil {
		return err
	}
	if a.DataType, err = buf.ReadU32(); err != nil {
		return err
	}
	hasTime, err := buf.ReadU32()
	if err != nil {
		return err
	}
	a.HasTime = hasTime != 0

	dataLen := int(a.ElemSize) * int(numData)
	if a.Data, err = buf.ReadRaw(dataLen); err != nil {
		return err
	}

	if a.HasTime {
		a.TimeData = make([]uint32, numData)
		for i := range a.TimeData {
			if a.TimeData[i], err = buf.ReadU32(); err != nil {
				return err
			}
		}
	}

	return nil
}

func (a *IndVarArray) encode(buf *buffer.Buffer) error {
	if err := a.encodeStats(buf); err != nil {
		return err
	}

	buf.WriteU32(a.NumData())
	buf.WriteU32(a.ElemSize)
	buf.WriteU32(a.DataType)
	if a.HasTime {
		buf.WriteU32(1)
	} else {
		buf.WriteU32(0)
	}
	buf.WriteRaw(a.Data)

	if a.HasTime {
		if uint32(len(a.TimeData)) != a.NumData() { //nolint:gosec
			return muderr.ErrInvalidInput
		}
		for _, t := range a.TimeData {
			buf.WriteU32(t)
		}
	}

	return nil
}

func (a *IndVarArray) size() uint32 {
	size := a.statsSize() + 16 + uint32(len(a.Data)) //nolint:gosec
	if a.HasTime {
		size += a.NumData() * 4
	}

	return size
}

func (a *IndVarArray) show() string {
	return fmt.Sprintf("<IndVarArray %q numData=%d hasTime=%v>", a.Name, a.NumData(), a.HasTime)
}
