// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mintcp

import (
	"fmt"
	"sync/atomic"
)

// Snmp defines network statistics indicators
type Snmp struct {
	BytesSent        uint64 // bytes sent from upper level
	BytesReceived    uint64 // bytes received to upper level
	MaxConn          uint64 // max number of connections ever reached
	ActiveOpens      uint64 // accumulated active open connections
	PassiveOpens     uint64 // accumulated passive open connections
	CurrEstab        uint64 // current number of established connections
	InErrs           uint64 // UDP read errors reported from net.PacketConn
	InCsumErrors     uint64 // checksum errors from CRC32
	InSegs           uint64 // incoming segments count
	OutSegs          uint64 // outgoing segments count
	RetransSegs      uint64 // retransmitted segments
	ProbeSegs        uint64 // zero-window probes retransmitted
	RSTSegs          uint64 // segments carrying RST, both directions
	OutOfWindowSegs  uint64 // segments discarded for lying outside the window
	RepeatSegs       uint64 // segments acknowledging nothing new
	EstabResets      uint64 // connections torn down by RST
	PacketsTooSmall  uint64 // datagrams below the minimum wire size
	PacketsCorrupted uint64 // datagrams that failed to decode
}

func newSnmp() *Snmp {
	return new(Snmp)
}

// Header returns all field names
func (s *Snmp) Header() []string {
	return []string{
		"BytesSent",
		"BytesReceived",
		"MaxConn",
		"ActiveOpens",
		"PassiveOpens",
		"CurrEstab",
		"InErrs",
		"InCsumErrors",
		"InSegs",
		"OutSegs",
		"RetransSegs",
		"ProbeSegs",
		"RSTSegs",
		"OutOfWindowSegs",
		"RepeatSegs",
		"EstabResets",
		"PacketsTooSmall",
		"PacketsCorrupted",
	}
}

// ToSlice returns current snmp info as slice
func (s *Snmp) ToSlice() []string {
	snmp := s.Copy()
	return []string{
		fmt.Sprint(snmp.BytesSent),
		fmt.Sprint(snmp.BytesReceived),
		fmt.Sprint(snmp.MaxConn),
		fmt.Sprint(snmp.ActiveOpens),
		fmt.Sprint(snmp.PassiveOpens),
		fmt.Sprint(snmp.CurrEstab),
		fmt.Sprint(snmp.InErrs),
		fmt.Sprint(snmp.InCsumErrors),
		fmt.Sprint(snmp.InSegs),
		fmt.Sprint(snmp.OutSegs),
		fmt.Sprint(snmp.RetransSegs),
		fmt.Sprint(snmp.ProbeSegs),
		fmt.Sprint(snmp.RSTSegs),
		fmt.Sprint(snmp.OutOfWindowSegs),
		fmt.Sprint(snmp.RepeatSegs),
		fmt.Sprint(snmp.EstabResets),
		fmt.Sprint(snmp.PacketsTooSmall),
		fmt.Sprint(snmp.PacketsCorrupted),
	}
}

// Copy make a copy of current snmp snapshot
func (s *Snmp) Copy() *Snmp {
	d := newSnmp()
	d.BytesSent = atomic.LoadUint64(&s.BytesSent)
	d.BytesReceived = atomic.LoadUint64(&s.BytesReceived)
	d.MaxConn = atomic.LoadUint64(&s.MaxConn)
	d.ActiveOpens = atomic.LoadUint64(&s.ActiveOpens)
	d.PassiveOpens = atomic.LoadUint64(&s.PassiveOpens)
	d.CurrEstab = atomic.LoadUint64(&s.CurrEstab)
	d.InErrs = atomic.LoadUint64(&s.InErrs)
	d.InCsumErrors = atomic.LoadUint64(&s.InCsumErrors)
	d.InSegs = atomic.LoadUint64(&s.InSegs)
	d.OutSegs = atomic.LoadUint64(&s.OutSegs)
	d.RetransSegs = atomic.LoadUint64(&s.RetransSegs)
	d.ProbeSegs = atomic.LoadUint64(&s.ProbeSegs)
	d.RSTSegs = atomic.LoadUint64(&s.RSTSegs)
	d.OutOfWindowSegs = atomic.LoadUint64(&s.OutOfWindowSegs)
	d.RepeatSegs = atomic.LoadUint64(&s.RepeatSegs)
	d.EstabResets = atomic.LoadUint64(&s.EstabResets)
	d.PacketsTooSmall = atomic.LoadUint64(&s.PacketsTooSmall)
	d.PacketsCorrupted = atomic.LoadUint64(&s.PacketsCorrupted)
	return d
}

// Reset values to zero
func (s *Snmp) Reset() {
	atomic.StoreUint64(&s.BytesSent, 0)
	atomic.StoreUint64(&s.BytesReceived, 0)
	atomic.StoreUint64(&s.MaxConn, 0)
	atomic.StoreUint64(&s.ActiveOpens, 0)
	atomic.StoreUint64(&s.PassiveOpens, 0)
	atomic.StoreUint64(&s.CurrEstab, 0)
	atomic.StoreUint64(&s.InErrs, 0)
	atomic.StoreUint64(&s.InCsumErrors, 0)
	atomic.StoreUint64(&s.InSegs, 0)
	atomic.StoreUint64(&s.OutSegs, 0)
	atomic.StoreUint64(&s.RetransSegs, 0)
	atomic.StoreUint64(&s.ProbeSegs, 0)
	atomic.StoreUint64(&s.RSTSegs, 0)
	atomic.StoreUint64(&s.OutOfWindowSegs, 0)
	atomic.StoreUint64(&s.RepeatSegs, 0)
	atomic.StoreUint64(&s.EstabResets, 0)
	atomic.StoreUint64(&s.PacketsTooSmall, 0)
	atomic.StoreUint64(&s.PacketsCorrupted, 0)
}

// DefaultSnmp is the global connection statistics collector
var DefaultSnmp *Snmp

func init() {
	DefaultSnmp = newSnmp()
}
