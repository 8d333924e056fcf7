// Package ordstat implements the order statistics buffer behind the
// median aggregate: a single contiguous, capacity tracked array of
// values kept fully sorted at all times.
//
// This is a straight-forward implementation that scales poorly once
// the data goes beyond cache. Insertion and removal are O(n) by
// design: the flat array keeps the state a single allocation that is
// trivially relocatable by the owning aggregation context, at the
// cost of quadratic total insertion time. That trade-off is only
// acceptable for moderate window and set sizes.
package ordstat

import (
	"strings"

	errors "github.com/pkg/errors"
	"github.com/sveljko/pgmedian/types"
)

// Initial slot count of a fresh buffer, chosen to amortize early
// reallocations.
const DefaultCapacity = 64

// Growing by halves from a capacity below two gets stuck.
const minCapacity = 2

// Upper bound on slot count so the byte size of the backing array
// stays well clear of the allocator's arithmetic range.
const maxCapacity = 1 << 48

var (
	ErrCapacityOverflow  = errors.New("overflow while expanding buffer")
	ErrAllocationFailure = errors.New("buffer too large to allocate")
	ErrRetractNotFound   = errors.New("value not found during retraction")
	ErrClassMismatch     = errors.New("value class does not match the buffer")
)

// Collator is the three way string comparison the buffer uses for its
// textual instantiation. protocols.LookupCollator returns one.
type Collator interface {
	Compare(a string, b string) int
}

type byteOrder struct{}

func (byteOrder) Compare(a string, b string) int {
	return strings.Compare(a, b)
}

// Buffer holds either 64 bit integers or strings - never both. The
// class is fixed by the first insertion. Slots [0, length) are sorted
// non-decreasing under the comparator for the class; slots beyond
// length are unused.
type Buffer struct {
	class    types.ValueClass
	capacity int
	length   int

	nums []int64
	strs []string
}

// New returns an empty buffer with the default initial capacity. The
// value class is not yet decided.
func New() *Buffer {
	return NewWithCapacity(DefaultCapacity)
}

func NewWithCapacity(capacity int) *Buffer {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return &Buffer{capacity: capacity}
}

func (self *Buffer) Len() int {
	return self.length
}

func (self *Buffer) Cap() int {
	return self.capacity
}

func (self *Buffer) Class() types.ValueClass {
	return self.class
}

// The first insertion decides the class and allocates the slot
// array. Later insertions of the other class are a hard error - the
// engine guarantees type consistent input per aggregation, so a
// mismatch means the contract was violated.
func (self *Buffer) setClass(class types.ValueClass) error {
	if self.class == class {
		return nil
	}

	if self.class != types.ClassInvalid {
		return errors.Wrapf(ErrClassMismatch,
			"%v buffer given a %v value", self.class, class)
	}

	self.class = class
	switch class {
	case types.ClassOrdinal:
		self.nums = make([]int64, self.capacity)
	case types.ClassTextual:
		self.strs = make([]string, self.capacity)
	}
	return nil
}

// Grow the slot array by half again when it is full. Arithmetic
// overflow of the new capacity is a hard stop before any mutation,
// never a silent truncation.
func (self *Buffer) ensureCapacity() error {
	if self.length < self.capacity {
		return nil
	}

	ncap := self.capacity * 3 / 2
	if ncap < self.capacity {
		return errors.Wrapf(ErrCapacityOverflow,
			"capacity %v", self.capacity)
	}
	if ncap > maxCapacity {
		return errors.Wrapf(ErrAllocationFailure,
			"capacity %v exceeds the maximum %v", ncap, maxCapacity)
	}

	switch self.class {
	case types.ClassOrdinal:
		nums := make([]int64, ncap)
		copy(nums, self.nums[:self.length])
		self.nums = nums

	case types.ClassTextual:
		strs := make([]string, ncap)
		copy(strs, self.strs[:self.length])
		self.strs = strs
	}

	self.capacity = ncap
	return nil
}

// InsertNum adds x to the ordinal instantiation: find the first slot
// not less than x, shift the tail up and write x into the hole.
func (self *Buffer) InsertNum(x int64) error {
	err := self.setClass(types.ClassOrdinal)
	if err != nil {
		return err
	}

	err = self.ensureCapacity()
	if err != nil {
		return err
	}

	i := 0
	for ; i < self.length; i++ {
		if self.nums[i] >= x {
			break
		}
	}
	copy(self.nums[i+1:self.length+1], self.nums[i:self.length])
	self.nums[i] = x
	self.length++
	return nil
}

// InsertText is the textual counterpart of InsertNum. The position is
// found under the collator, so the same buffer orders differently for
// different collations of the owning aggregation.
func (self *Buffer) InsertText(x string, collator Collator) error {
	err := self.setClass(types.ClassTextual)
	if err != nil {
		return err
	}

	err = self.ensureCapacity()
	if err != nil {
		return err
	}

	if collator == nil {
		collator = byteOrder{}
	}

	i := 0
	for ; i < self.length; i++ {
		if collator.Compare(self.strs[i], x) >= 0 {
			break
		}
	}
	copy(self.strs[i+1:self.length+1], self.strs[i:self.length])
	self.strs[i] = x
	self.length++
	return nil
}

// RemoveNum undoes a prior InsertNum by value. Equal values are
// interchangeable: the first match goes and the tail shifts down over
// it. A miss means the engine retracted a value it never accumulated,
// which must never happen in a correct moving window sequence.
func (self *Buffer) RemoveNum(x int64) error {
	err := self.setClass(types.ClassOrdinal)
	if err != nil {
		return err
	}

	for i := 0; i < self.length; i++ {
		if self.nums[i] == x {
			copy(self.nums[i:self.length-1], self.nums[i+1:self.length])
			self.length--
			return nil
		}
	}
	return errors.Wrapf(ErrRetractNotFound, "%v", x)
}

func (self *Buffer) RemoveText(x string, collator Collator) error {
	err := self.setClass(types.ClassTextual)
	if err != nil {
		return err
	}

	if collator == nil {
		collator = byteOrder{}
	}

	for i := 0; i < self.length; i++ {
		if collator.Compare(self.strs[i], x) == 0 {
			copy(self.strs[i:self.length-1], self.strs[i+1:self.length])
			self.strs[self.length-1] = ""
			self.length--
			return nil
		}
	}
	return errors.Wrapf(ErrRetractNotFound, "%v", x)
}

// Median returns the element at index length/2 - the true middle for
// odd counts, the upper median for even counts. The two center
// elements are never averaged: averaging is undefined for the textual
// class and would change the numeric semantics too. The buffer is not
// touched, so Median can be read repeatedly while a window advances.
func (self *Buffer) Median() (types.Any, bool) {
	if self.length == 0 {
		return types.Null{}, false
	}

	switch self.class {
	case types.ClassOrdinal:
		return self.nums[self.length/2], true
	case types.ClassTextual:
		return self.strs[self.length/2], true
	}
	return types.Null{}, false
}

// Values returns a copy of the occupied slots in sorted order.
func (self *Buffer) Values() []types.Any {
	result := make([]types.Any, 0, self.length)
	switch self.class {
	case types.ClassOrdinal:
		for _, x := range self.nums[:self.length] {
			result = append(result, x)
		}
	case types.ClassTextual:
		for _, x := range self.strs[:self.length] {
			result = append(result, x)
		}
	}
	return result
}
