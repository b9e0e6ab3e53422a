package failure_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kubev2v/index-orchestrator/pkg/failure"
)

var _ = Describe("Handler", func() {
	var logs *observer.ObservedLogs

	BeforeEach(func() {
		core, observed := observer.New(zapcore.DebugLevel)
		logs = observed
		DeferCleanup(zap.ReplaceGlobals(zap.New(core)))
	})

	It("should log a failure with its context", func() {
		h := failure.NewLogHandler("local")

		h.Handle(failure.Context{
			FailingOperation: "Work processing",
			Err:              errors.New("disk full"),
			EntityReference:  "e1",
		})

		Expect(logs.Len()).To(Equal(1))
		entry := logs.All()[0]
		Expect(entry.Level).To(Equal(zapcore.ErrorLevel))
		Expect(entry.LoggerName).To(Equal("local"))
		fields := entry.ContextMap()
		Expect(fields).To(HaveKeyWithValue("operation", "Work processing"))
		Expect(fields).To(HaveKeyWithValue("error", "disk full"))
		Expect(fields).To(HaveKeyWithValue("entity", "e1"))
	})

	It("should omit an empty entity reference", func() {
		failure.NewLogHandler("local").Handle(failure.Context{FailingOperation: "Batch completion", Err: errors.New("boom")})

		Expect(logs.All()[0].ContextMap()).NotTo(HaveKey("entity"))
	})

	It("should adapt a function", func() {
		var got failure.Context
		h := failure.HandlerFunc(func(c failure.Context) { got = c })

		h.Handle(failure.Context{FailingOperation: "Running task"})

		Expect(got.FailingOperation).To(Equal("Running task"))
	})
})
