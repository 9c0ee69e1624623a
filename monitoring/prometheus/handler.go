package prometheus

import (
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/unicornultrafoundation/go-slotinit/logger"
)

var log = logger.New("prometheus")

// WriteMetrics writes every metric of g to w in the Prometheus text format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// DumpFile replaces the file at path with the metrics of g.
func DumpFile(path string, g prometheus.Gatherer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMetrics(f, g); err != nil {
		f.Close()
		return err
	}
	log.Log.WithField("file", path).Debug("Metrics written")
	return f.Close()
}
