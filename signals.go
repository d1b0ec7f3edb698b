package veil

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for boundary events.
var (
	SignalInterceptorCreated = capitan.NewSignal("veil.interceptor.created", "Interceptor instantiated")
	SignalProcessorCreated   = capitan.NewSignal("veil.processor.created", "Processor instantiated")
	SignalCallStart          = capitan.NewSignal("veil.call.start", "Boundary call beginning")
	SignalCallComplete       = capitan.NewSignal("veil.call.complete", "Boundary call finished")
	SignalParamApplied       = capitan.NewSignal("veil.param.applied", "Boundary parameter transformed")
	SignalFieldApplied       = capitan.NewSignal("veil.field.applied", "Marked field transformed")
	SignalFieldSkipped       = capitan.NewSignal("veil.field.skipped", "Marked field left untouched")
	SignalReceiveStart       = capitan.NewSignal("veil.receive.start", "Receive operation beginning")
	SignalReceiveComplete    = capitan.NewSignal("veil.receive.complete", "Receive operation finished")
	SignalSendStart          = capitan.NewSignal("veil.send.start", "Send operation beginning")
	SignalSendComplete       = capitan.NewSignal("veil.send.complete", "Send operation finished")
)

// Keys for typed event data.
var (
	KeyCall         = capitan.NewStringKey("call")
	KeyContentType  = capitan.NewStringKey("content_type")
	KeyTypeName     = capitan.NewStringKey("type_name")
	KeyField        = capitan.NewStringKey("field")
	KeyDomain       = capitan.NewStringKey("domain")
	KeyReason       = capitan.NewStringKey("reason")
	KeyPosition     = capitan.NewIntKey("position")
	KeyDomainCount  = capitan.NewIntKey("domain_count")
	KeySize         = capitan.NewIntKey("size")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
	KeyDecodedCount = capitan.NewIntKey("decoded_count")
	KeyEncodedCount = capitan.NewIntKey("encoded_count")
)

// emitInterceptorCreated emits an event when an interceptor is created.
func emitInterceptorCreated(ctx context.Context, domains int) {
	capitan.Emit(ctx, SignalInterceptorCreated,
		KeyDomainCount.Field(domains),
	)
}

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitCallStart emits an event when a boundary call begins.
func emitCallStart(ctx context.Context, call string) {
	capitan.Emit(ctx, SignalCallStart,
		KeyCall.Field(call),
	)
}

// emitCallComplete emits an event when a boundary call finishes.
func emitCallComplete(ctx context.Context, call string, duration time.Duration, decoded, encoded int, err error) {
	fields := []capitan.Field{
		KeyCall.Field(call),
		KeyDuration.Field(duration),
		KeyDecodedCount.Field(decoded),
		KeyEncodedCount.Field(encoded),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCallComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalCallComplete, fields...)
	}
}

// emitParamApplied emits an event when a marked parameter is transformed.
// Values are never attached.
func emitParamApplied(ctx context.Context, call string, position int, domain string) {
	capitan.Emit(ctx, SignalParamApplied,
		KeyCall.Field(call),
		KeyPosition.Field(position),
		KeyDomain.Field(domain),
	)
}

// emitFieldApplied emits an event when a marked field is transformed.
func emitFieldApplied(ctx context.Context, typeName, field, domain string) {
	capitan.Emit(ctx, SignalFieldApplied,
		KeyTypeName.Field(typeName),
		KeyField.Field(field),
		KeyDomain.Field(domain),
	)
}

// emitFieldSkipped emits a diagnostic event when a marked field cannot be
// read or written.
func emitFieldSkipped(ctx context.Context, typeName, field, domain, reason string) {
	capitan.Emit(ctx, SignalFieldSkipped,
		KeyTypeName.Field(typeName),
		KeyField.Field(field),
		KeyDomain.Field(domain),
		KeyReason.Field(reason),
	)
}

// emitReceiveStart emits an event when receive begins.
func emitReceiveStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalReceiveStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitReceiveComplete emits an event when receive finishes.
func emitReceiveComplete(ctx context.Context, contentType, typeName string, duration time.Duration, decoded int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyDecodedCount.Field(decoded),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalReceiveComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalReceiveComplete, fields...)
	}
}

// emitSendStart emits an event when send begins.
func emitSendStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalSendStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitSendComplete emits an event when send finishes.
func emitSendComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, encoded int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyEncodedCount.Field(encoded),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSendComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSendComplete, fields...)
	}
}
