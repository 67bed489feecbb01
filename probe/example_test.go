package probe_test

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/jonwraymond/healthprobe/opcache"
	"github.com/jonwraymond/healthprobe/probe"
)

func ExampleProber_RunHealthCheck() {
	fs := afero.NewMemMapFs()
	_ = fs.MkdirAll("/tmp", 0o755)

	env := map[string]string{"HEALTH_TMP_DIR": "/tmp"}
	p := probe.New(probe.Options{
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		Capabilities: probe.Capabilities{
			Redis:   true,
			Opcache: opcache.Static{Enabled: true, UsedMemory: 8 << 20},
		},
		Fs: fs,
	})

	report, code := p.RunHealthCheck(context.Background())
	memory, _ := report.Info.Get(probe.InfoOpcacheMemory)

	fmt.Println(code, report.Status)
	fmt.Println(report.CheckNames())
	fmt.Println(memory)
	// Output:
	// 200 healthy
	// [filesystem opcache]
	// 8.00MB
}
