// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package wpilog

import "errors"

// ErrInvalidHeader is returned by OpenFile when the file does not start
// with the "WPILOG" signature or declares a version below the minimum
// supported 0x0100 (the condition Validate reports as false). The CLI
// skips the whole file on this error.
var ErrInvalidHeader = errors.New("wpilog: invalid header")

// ErrNotControl is returned by the control-record accessors when called
// on a record whose sub-kind does not match.
var ErrNotControl = errors.New("wpilog: record is not of the requested control kind")

// ErrMalformedPayload is returned by DecodeData when a data record's
// payload size does not match what its declared type requires. The
// ingestion pipeline recovers from this by skipping the record.
var ErrMalformedPayload = errors.New("wpilog: malformed payload for declared type")
