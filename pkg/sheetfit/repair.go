package sheetfit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/legacy"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/probe"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/rebuild"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/workbook"
)

// Repair probes every sheet of the workbook at path and, when opts.Fix is set
// and some sheet is bloated, writes a repaired copy next to it. The input file
// is never modified; a backup is taken before any sheet is rebuilt.
//
// The returned result is never nil. On failure it carries the error text and
// the error is a *RepairError matching one of the package sentinels.
func Repair(path string, opts Options) (*models.RepairResult, error) {
	r := &run{
		opts:   opts,
		result: &models.RepairResult{RunID: uuid.NewString(), SourcePath: path},
	}
	r.log = opts.logger().WithFields(logrus.Fields{"run": r.result.RunID, "path": path})

	if err := r.execute(path); err != nil {
		r.result.Success = false
		r.result.Error = err.Error()
		r.log.WithError(err).Error("repair failed")
		return r.result, err
	}
	r.result.Success = true
	return r.result, nil
}

type run struct {
	opts   Options
	log    logrus.FieldLogger
	result *models.RepairResult
}

func (r *run) execute(path string) error {
	working, err := r.load(path)
	if err != nil {
		return err
	}

	out := r.opts.OutputPath
	if out == "" {
		out = FixedPath(working)
	}
	if r.opts.Fix && (samePath(out, path) || samePath(out, working)) {
		return NewRepairError(StagePersist, out, ErrSave, errors.New("output path must differ from the input"))
	}

	wb, err := r.opts.opener()(working)
	if err != nil {
		return NewRepairError(StageLoad, working, ErrLoad, err)
	}
	defer wb.Close()

	flagged, err := r.probeAll(wb)
	if err != nil {
		return NewRepairError(StageProbe, working, ErrLoad, err)
	}
	r.result.HasIssues = len(flagged) > 0
	r.result.IssuesCount = len(flagged)

	if !r.result.HasIssues || !r.opts.Fix {
		r.result.FilePath = absPath(working)
		return nil
	}

	if r.opts.ShouldInspectDrawings() {
		r.inspectDrawings(working, flagged)
	}

	if err := r.backup(working); err != nil {
		return err
	}

	for n, idx := range flagged {
		if err := r.reconstruct(wb, &r.result.Sheets[idx], n); err != nil {
			return NewRepairError(StageRebuild, working, ErrRebuild, err)
		}
	}

	if err := r.persist(wb, out); err != nil {
		return err
	}
	r.result.Fixed = true
	r.result.FilePath = absPath(out)
	return nil
}

// load resolves the working xlsx path, converting legacy input first.
func (r *run) load(path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", NewRepairError(StageLoad, path, ErrFileNotFound, nil)
	}
	if err != nil {
		return "", NewRepairError(StageLoad, path, ErrLoad, err)
	}
	if info.IsDir() {
		return "", NewRepairError(StageLoad, path, ErrLoad, errors.New("is a directory"))
	}

	isLegacy, err := legacy.IsLegacy(path)
	if err != nil {
		return "", NewRepairError(StageLoad, path, ErrLoad, err)
	}
	if !isLegacy {
		return path, nil
	}

	r.log.Info("converting legacy workbook")
	converted, err := r.opts.converter().Convert(path)
	if err != nil {
		return "", NewRepairError(StageLoad, path, ErrLoad, err)
	}
	r.result.ConvertedPath = converted
	r.log.WithField("converted", converted).Debug("legacy workbook converted")
	return converted, nil
}

// probeAll fills the per-sheet reports and returns the indexes of flagged
// sheets in workbook order.
func (r *run) probeAll(wb workbook.Workbook) ([]int, error) {
	limits := r.opts.limits()
	thresholds := r.opts.thresholds()

	var flagged []int
	for pos, name := range wb.SheetNames() {
		ws, err := wb.Sheet(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		extent, err := probe.Probe(ws, limits)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		report := models.SheetReport{
			Name:     name,
			Position: pos,
			Extent:   extent,
			Verdict:  probe.Classify(extent, thresholds),
		}

		log := r.log.WithFields(logrus.Fields{
			"sheet":    name,
			"declared": fmt.Sprintf("%dx%d", extent.DeclaredRows, extent.DeclaredCols),
			"actual":   fmt.Sprintf("%dx%d", extent.ActualRows, extent.ActualCols),
		})
		if report.Verdict.HasSizeIssue {
			flagged = append(flagged, len(r.result.Sheets))
			log.Warn("declared extent is bloated")
		} else {
			log.Debug("sheet is healthy")
		}
		r.result.Sheets = append(r.result.Sheets, report)
	}
	return flagged, nil
}

// inspectDrawings records drawing anchors on flagged sheets. Rebuilt sheets
// keep cell content only, so drawings on them are lost.
func (r *run) inspectDrawings(working string, flagged []int) {
	anchors, err := workbook.DrawingAnchors(working)
	if err != nil {
		r.log.WithError(err).Debug("drawing inventory unavailable")
		return
	}
	for _, idx := range flagged {
		report := &r.result.Sheets[idx]
		report.Drawings = anchors[report.Name]
		if report.Drawings > 0 {
			r.log.WithFields(logrus.Fields{"sheet": report.Name, "drawings": report.Drawings}).
				Warn("drawings on this sheet are not carried over")
		}
	}
}

func (r *run) backup(working string) error {
	dst := BackupPath(working, r.opts.now())
	sum, err := backupFile(working, dst)
	if err != nil {
		return NewRepairError(StageBackup, working, ErrBackup, err)
	}
	r.result.BackupPath = absPath(dst)
	r.result.BackupChecksum = sum
	r.log.WithField("backup", dst).Info("backup created")
	return nil
}

func (r *run) reconstruct(wb workbook.Workbook, report *models.SheetReport, n int) error {
	src, err := wb.Sheet(report.Name)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", report.Name, err)
	}

	policy := r.opts.policy(n)
	dst, stats, err := rebuild.Reconstruct(wb, src, report.Extent.ActualRows, report.Extent.ActualCols, r.opts.floor(), policy)
	if err != nil {
		return err
	}
	if err := wb.ReplaceSheet(report.Name, dst); err != nil {
		wb.RemoveSheet(dst.Name())
		return fmt.Errorf("replace %q: %w", report.Name, err)
	}

	report.Repaired = true
	report.Rebuild = &stats
	if policy != nil {
		report.Palette = policy.Palette.Name
	}

	log := r.log.WithFields(logrus.Fields{
		"sheet":  report.Name,
		"extent": fmt.Sprintf("%dx%d", stats.Rows, stats.Cols),
		"copied": stats.Copied,
	})
	if stats.Skipped > 0 {
		log.WithField("skipped", stats.Skipped).Warn("some cells could not be copied")
	}
	log.Info("sheet rebuilt")
	return nil
}

func (r *run) persist(wb workbook.Workbook, out string) error {
	if err := saveAtomic(wb, out); err != nil {
		return NewRepairError(StagePersist, out, ErrSave, err)
	}

	log := r.log.WithField("output", out)
	if before, after := fileSize(r.result.SourcePath), fileSize(out); before > 0 && after > 0 {
		log = log.WithFields(logrus.Fields{"before_bytes": before, "after_bytes": after})
	}
	log.Info("repaired workbook saved")
	return nil
}

// saveAtomic saves wb to a sibling of out and renames it into place, so a
// failed save leaves any existing file at out as it was.
func saveAtomic(wb workbook.Workbook, out string) error {
	stem := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
	tmp, err := os.CreateTemp(filepath.Dir(out), "."+stem+".*"+filepath.Ext(out))
	if err != nil {
		return err
	}
	name := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}

	if err := wb.Save(name); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, out); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func samePath(a, b string) bool {
	if absPath(a) == absPath(b) {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
