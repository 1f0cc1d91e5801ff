package heatmap

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/plots"
	"rna_seq_go/table"
)

// DirName is the heatmap subdirectory of the output directory.
const DirName = "heatmap"

// Display defaults: log10 with pseudocount, no library-size scaling.
const (
	LogPseudocount         = true
	NormalizeBySampleReads = false
)

// Run filters m to the most abundant genes, rescales and clusters it, then writes
// heatmap-<name>.csv, .png and .pdf under <outdir>/heatmap. It returns the plotted matrix.
func Run(s config.Settings, name string, m *table.Matrix, fraction float64) (*table.Matrix, error) {
	log := s.Log.WithField("stage", "heatmap-"+name)

	filtered, err := FilterByCumulativeReads(m, fraction)
	if err != nil {
		return nil, err
	}
	log.Infof("Total genes: %d", len(m.Rows))
	log.Infof("Keep the most abundant genes covering %.2f%% of %s: %d genes", fraction*100, name, len(filtered.Rows))

	scaled, err := Rescale(filtered, LogPseudocount, NormalizeBySampleReads)
	if err != nil {
		return nil, apperrors.Wrap(err, "rescale")
	}

	clustered, err := Cluster(scaled)
	if err != nil {
		return nil, apperrors.Wrap(err, "cluster")
	}
	if len(clustered.Rows) > MaxClusterRows {
		log.WithField("rows", len(clustered.Rows)).Warn("too many rows to cluster, keeping abundance order")
	}

	dir := filepath.Join(s.Outdir, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.IO(dir, err)
	}
	prefix := filepath.Join(dir, "heatmap-"+name)

	fig, err := plots.Heatmap(clustered, plots.HeatmapColormap, "heatmap-"+name)
	if err != nil {
		return nil, apperrors.Wrap(err, "plot")
	}
	log.WithFields(logrus.Fields{"dpi": fig.DPI}).Debug("saving heatmap")
	if err := fig.Save(prefix+".pdf", prefix+".png"); err != nil {
		return nil, apperrors.IO(prefix, err)
	}
	if err := table.WriteMatrix(prefix+".csv", clustered); err != nil {
		return nil, err
	}
	return clustered, nil
}

// Cluster reorders both rows and columns by their dendrogram leaf order.
func Cluster(m *table.Matrix) (*table.Matrix, error) {
	byRow := m.SelectRows(LeafOrder(m.Values))

	t := byRow.Transpose()
	cols := LeafOrder(t.Values)
	names := make([]string, len(cols))
	for k, j := range cols {
		names[k] = t.Rows[j]
	}
	return byRow.SelectCols(names)
}
