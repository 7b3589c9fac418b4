package servecmder

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sxpeea/sxpeea/pkg/logger"
)

var _ = Describe("watchFile", func() {
	var (
		dir    string
		path   string
		calls  atomic.Int32
		cancel context.CancelFunc
		done   chan error
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "serve-watch-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		path = filepath.Join(dir, "config.toml")
		calls.Store(0)

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan error, 1)
		go func() {
			done <- watchFile(ctx, path, logger.Nop(), func() { calls.Add(1) })
		}()

		// Give the watcher time to register the directory.
		time.Sleep(100 * time.Millisecond)
	})

	AfterEach(func() {
		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("fires once for a burst of writes to the file", func() {
		for range 3 {
			Expect(os.WriteFile(path, []byte("[chat]\nbot_id = \"b\"\n"), 0o600)).To(Succeed())
		}

		Eventually(calls.Load, time.Second).Should(Equal(int32(1)))
		Consistently(calls.Load, 400*time.Millisecond).Should(Equal(int32(1)))
	})

	It("ignores other files in the directory", func() {
		Expect(os.WriteFile(filepath.Join(dir, "sxpeea.db"), []byte("x"), 0o600)).To(Succeed())
		Consistently(calls.Load, 500*time.Millisecond).Should(BeZero())
	})
})

var _ = Describe("NewServeCmd", func() {
	It("registers every serve flag", func() {
		cmd := NewServeCmd()
		for _, name := range []string{"listen", "upload-dir", "storage", "sqlite", "postgres", "bot-id", "api-token", "idle-timeout", "eventstream", "kafka-brokers", "watch-config", "log-file", "log-source"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})
})

var _ = Describe("initLogger", func() {
	var (
		out     *bytes.Buffer
		logPath string
	)

	BeforeEach(func() {
		dir, err := os.MkdirTemp("", "serve-log-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		out = &bytes.Buffer{}
		logPath = filepath.Join(dir, "serve.log")
	})

	readLog := func() map[string]any {
		GinkgoHelper()
		data, err := os.ReadFile(logPath)
		Expect(err).NotTo(HaveOccurred())

		var record map[string]any
		Expect(json.Unmarshal(bytes.TrimSpace(data), &record)).To(Succeed())
		return record
	}

	It("logs only to the console without a log file", func() {
		c := &serveCommander{out: out}
		closeLog, err := c.initLogger()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(closeLog)

		c.logger.Info("listening", "listen", ":8000")

		Expect(out.String()).To(ContainSubstring("listening"))
		Expect(logPath).NotTo(BeAnExistingFile())
	})

	It("writes pretty console output and JSON to the log file", func() {
		c := &serveCommander{out: out, logFile: logPath}
		closeLog, err := c.initLogger()
		Expect(err).NotTo(HaveOccurred())

		c.logger.Info("listening", "listen", ":8000")
		Expect(closeLog()).To(Succeed())

		Expect(out.String()).To(ContainSubstring("listening"))
		Expect(out.String()).NotTo(HavePrefix("{"))

		record := readLog()
		Expect(record).To(HaveKeyWithValue("msg", "listening"))
		Expect(record).To(HaveKeyWithValue("listen", ":8000"))
	})

	It("writes the same JSON record to console and file with --log-json", func() {
		c := &serveCommander{out: out, logFile: logPath, logJSON: true, logSource: true}
		closeLog, err := c.initLogger()
		Expect(err).NotTo(HaveOccurred())

		c.logger.Info("listening")
		Expect(closeLog()).To(Succeed())

		Expect(strings.TrimSpace(out.String())).To(HavePrefix("{"))
		Expect(readLog()).To(HaveKey("source"))
	})

	It("fails when the log file cannot be opened", func() {
		c := &serveCommander{out: out, logFile: filepath.Join(logPath, "missing", "serve.log")}
		_, err := c.initLogger()
		Expect(err).To(MatchError(ContainSubstring("opening log file")))
	})
})
