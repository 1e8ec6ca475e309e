package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banshee-data/anthro.report/internal/anthro"
	"github.com/banshee-data/anthro.report/internal/config"
	"github.com/banshee-data/anthro.report/internal/facts"
	"github.com/banshee-data/anthro.report/internal/mesh"
	"github.com/banshee-data/anthro.report/internal/report"
	"github.com/banshee-data/anthro.report/internal/store"
	"github.com/banshee-data/anthro.report/internal/units"
)

func main() {
	var dir string
	var keyName string
	var srcUnits string
	var workers int
	var dbPath string
	var migrationsDir string
	var tuningPath string
	var plotDir string

	flag.StringVar(&dir, "dir", "", "directory of mesh files (.xyz, .obj, .ply)")
	flag.StringVar(&keyName, "key", "WAIST", "measurement key")
	flag.StringVar(&srcUnits, "units", units.M, "units of the input meshes")
	flag.IntVar(&workers, "workers", 0, "worker count (0 = NumCPU)")
	flag.StringVar(&dbPath, "db", "", "optional sqlite path to persist results")
	flag.StringVar(&migrationsDir, "migrations", "migrations", "directory containing schema migrations")
	flag.StringVar(&tuningPath, "tuning", "", "optional tuning config JSON")
	flag.StringVar(&plotDir, "plot-dir", "", "optional directory for per-case loop PNGs")
	flag.Parse()

	if dir == "" {
		log.Fatalf("dir must be provided")
	}
	key := anthro.Key(keyName)
	if !key.Valid() {
		log.Fatalf("unknown key %q", keyName)
	}
	if !units.IsValid(srcUnits) {
		log.Fatalf("invalid units %q: must be one of %s", srcUnits, units.GetValidUnitsString())
	}

	var tuning *config.TuningConfig
	if tuningPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(tuningPath)
		if err != nil {
			log.Fatalf("load tuning config: %v", err)
		}
		if err := tuning.Validate(); err != nil {
			log.Fatalf("invalid tuning config: %v", err)
		}
	} else {
		tuning = config.MustLoadDefaultConfig()
	}
	params := tuning.Params()

	cases, skipped := loadCases(dir, srcUnits, key)
	if len(cases) == 0 {
		log.Fatalf("no mesh files found under %s", dir)
	}
	log.Printf("[batch] loaded %d cases (%d skipped) from %s", len(cases), skipped, dir)

	results := anthro.MeasureBatch(cases, params, workers)

	measured := make([]anthro.MeasurementResult, 0, len(results))
	for _, cr := range results {
		if cr.Err != nil {
			log.Printf("[batch] case %s rejected: %v", cr.CaseID, cr.Err)
			continue
		}
		measured = append(measured, cr.Result)
		printResult(cr)
	}

	summary := facts.Aggregate(measured)
	printSummary(summary)

	if plotDir != "" {
		loops := make(map[string]anthro.Loop)
		for _, c := range cases {
			res, loop, err := anthro.MeasureSection(c.Cloud, c.Key, params)
			if err != nil || !res.Defined() {
				continue
			}
			loops[c.CaseID] = loop
		}
		savePlots(plotDir, loops)
	}

	if dbPath != "" {
		persist(dbPath, migrationsDir, dir, results)
	}
}

// loadCases reads every supported mesh file under dir, one case per file.
// Unreadable files are logged and skipped rather than failing the batch.
func loadCases(dir, srcUnits string, key anthro.Key) (cases []anthro.Case, skipped int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("read dir %s: %v", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".xyz" && ext != ".obj" && ext != ".ply" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		cloud, err := mesh.Load(path, srcUnits)
		if err != nil {
			log.Printf("[batch] skipping %s: %v", e.Name(), err)
			skipped++
			continue
		}
		caseID := strings.TrimSuffix(e.Name(), ext)
		cases = append(cases, anthro.Case{CaseID: caseID, Cloud: cloud, Key: key})
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].CaseID < cases[j].CaseID })
	return cases, skipped
}

func printResult(cr anthro.CaseResult) {
	r := cr.Result
	if r.Defined() {
		fmt.Printf("%s: %s = %.4f m (%s)\n", cr.CaseID, r.Key, r.Value, r.MethodTag)
	} else {
		fmt.Printf("%s: %s = NaN (%s)\n", cr.CaseID, r.Key, r.FailureReason)
	}
	for _, w := range r.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}

func printSummary(s facts.Summary) {
	fmt.Printf("\nprocessed=%d defined=%d undefined=%d nan_rate=%.3f\n", s.Processed, s.Defined, s.Undefined, s.NaNRate)
	if s.Defined > 0 {
		fmt.Printf("mean=%.4fm stddev=%.4fm p50=%.4fm p95=%.4fm\n", s.MeanM, s.StdDevM, s.P50M, s.P95M)
	}
	printCounts("methods", s.MethodUsage)
	printCounts("warnings", s.WarningCounts)
	printCounts("failures", s.FailureCounts)
}

func printCounts(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("%s:\n", label)
	for _, k := range keys {
		fmt.Printf("  %s: %d\n", k, counts[k])
	}
}

func persist(dbPath, migrationsDir, source string, results []anthro.CaseResult) {
	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if err := st.MigrateUp(migrationsDir); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	run := &store.Run{Source: source, Cases: len(results)}
	if err := st.InsertRun(run); err != nil {
		log.Fatalf("insert run: %v", err)
	}
	for _, cr := range results {
		if cr.Err != nil {
			continue
		}
		if err := st.InsertResult(run.RunID, cr.CaseID, cr.Result); err != nil {
			log.Fatalf("insert result for %s: %v", cr.CaseID, err)
		}
	}
	log.Printf("[batch] persisted run %s (%d cases) to %s", run.RunID, run.Cases, dbPath)
}

// savePlots is wired behind -plot-dir; it renders only defined loops.
func savePlots(plotDir string, loops map[string]anthro.Loop) {
	if err := os.MkdirAll(plotDir, 0o755); err != nil {
		log.Fatalf("create plot dir: %v", err)
	}
	for caseID, loop := range loops {
		path := filepath.Join(plotDir, caseID+".png")
		if err := report.SaveLoopPlot(loop, caseID, path); err != nil {
			log.Printf("[batch] plot %s: %v", caseID, err)
		}
	}
}
