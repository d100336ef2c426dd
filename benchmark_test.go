package logmonitor

import (
	"testing"
)

// BenchmarkLoggerInfo benchmarks the performance of standard Info logging
func BenchmarkLoggerInfo(b *testing.B) {
	logger, _ := createTestLogger(b)
	_ = logger.Start()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("bench", "benchmark message", i)
	}
}

// BenchmarkLoggerWrite benchmarks pre-formatted writes in low-power mode
func BenchmarkLoggerWrite(b *testing.B) {
	logger, _ := createTestLogger(b, "low_power=true")
	_ = logger.Start()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Write("bench", LevelInfo, "benchmark message")
	}
}

// BenchmarkLoggerFiltered benchmarks records rejected by the level filter
func BenchmarkLoggerFiltered(b *testing.B) {
	logger, _ := createTestLogger(b, "level=error")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug("bench", "filtered message", i)
	}
}

// BenchmarkBatchWrite benchmarks batched writes sharing one timestamp
func BenchmarkBatchWrite(b *testing.B) {
	logger, _ := createTestLogger(b)
	_ = logger.Start()

	entries := []Entry{
		{Level: LevelInfo, Message: "one"},
		{Level: LevelWarn, Message: "two"},
		{Level: LevelDebug, Message: "three"},
		{Level: LevelInfo, Message: "four"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.BatchWrite("bench", entries)
	}
}

// BenchmarkConcurrentLogging benchmarks the logger's performance under concurrent load
func BenchmarkConcurrentLogging(b *testing.B) {
	logger, _ := createTestLogger(b)
	_ = logger.Start()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			logger.Info("concurrent", i)
			i++
		}
	})
}
