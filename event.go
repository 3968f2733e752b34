// Copyright 2026 The parley Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package parley

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in an Exchange to extend it with
// custom functionality.
type Event int

const (
	// BeforeSend identifies the event that occurs when a send routine
	// begins, before the request is prepared.
	//
	// When an Exchange fires BeforeSend, its Response and Err fields
	// have been cleared and its prepared request is typically nil
	// (unless the caller assigned one manually). Handlers may still
	// change the declarative fields, for example to add query
	// parameters or headers to every send.
	BeforeSend Event = iota
	// BeforeDispatch identifies the event that occurs after the
	// request has been prepared and immediately before it is handed to
	// the transport.
	//
	// When an Exchange fires BeforeDispatch, its Request method
	// returns the request that WILL BE dispatched after all
	// BeforeDispatch handlers have finished. Handlers may modify the
	// request, for example to sign it.
	//
	// BeforeDispatch does not fire if preparation failed.
	BeforeDispatch
	// AfterReceive identifies the event that occurs after the
	// transport returned a response and the response was stored on the
	// exchange.
	//
	// When an Exchange fires AfterReceive, its Response field is
	// non-nil. AfterReceive never fires if the dispatch ended in
	// error, but always fires when a response is received, regardless
	// of its status code.
	AfterReceive
	// AfterSend identifies the event that occurs when the send routine
	// ends, regardless of how it ended.
	//
	// When an Exchange fires AfterSend, exactly one of its Response
	// and Err fields is non-nil: Response if a response was received,
	// and Err if preparation or dispatch failed.
	AfterSend
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events typed as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeSend",
	"BeforeDispatch",
	"AfterReceive",
	"AfterSend",
}

// Events returns a slice containing all events which can occur while
// an Exchange sends a request, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeSend,
		BeforeDispatch,
		AfterReceive,
		AfterSend,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
