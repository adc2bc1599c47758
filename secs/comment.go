package secs

import (
	"fmt"

	"github.com/mudformat/mud/buffer"
	"github.com/mudformat/mud/catalog"
	"github.com/mudformat/mud/secid"
)

func init() {
	catalog.Register(secid.CmtID, newOps(func() payload { return &Comment{} }))
}

// Comment is CMT_ID (§6): a threaded annotation attached to a run, linked
// to its reply chain by ID rather than by tree position.
type Comment struct {
	ID           uint32
	PrevReplyID  uint32
	NextReplyID  uint32
	Time         uint32
	Author       string
	Title        string
	Text         string
}

func (c *Comment) decode(buf *buffer.Buffer) (err error) {
	fields := []*uint32{&c.ID, &c.PrevReplyID, &c.NextReplyID, &c.Time}
	for _, f := range fields {
		if *f, err = buf.ReadU32(); err != nil {
			return err
		}
	}
	if c.Author, err = buf.ReadStr(); err != nil {
		return err
	}
	if c.Title, err = buf.ReadStr(); err != nil {
		return err
	}
	c.Text, err = buf.ReadStr()

	return err
}

func (c *Comment) encode(buf *buffer.Buffer) error {
	buf.WriteU32(c.ID)
	buf.WriteU32(c.PrevReplyID)
	buf.WriteU32(c.NextReplyID)
	buf.WriteU32(c.Time)
	if err := buf.WriteStr(c.Author); err != nil {
		return err
	}
	if err := buf.WriteStr(c.Title); err != nil {
		return err
	}

	return buf.WriteStr(c.Text)
}

func (c *Comment) size() uint32 {
	return 16 + strSize(c.Author) + strSize(c.Title) + strSize(c.Text)
}

func (c *Comment) show() string {
	return fmt.Sprintf("<Comment id=%d title=%q>", c.ID, c.Title)
}
