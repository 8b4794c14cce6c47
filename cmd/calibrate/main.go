// Package main is a command line front end for the hand-eye calibration
// engine. It owns the JSON pose file format so the engine itself stays free
// of any serialization concern.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"go.viam.com/handeye/calibration"
	"go.viam.com/handeye/spatialmath"
)

var logger = golog.NewDevelopmentLogger("calibrate")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	defaults := calibration.DefaultAlgorithmParameters()
	app := &cli.App{
		Name:  "calibrate",
		Usage: "estimate the hand-eye transform from a JSON file of paired robot and camera poses",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "poses",
				Usage:    "path to a JSON file with robot_poses and camera_poses as 4x4 row-major matrices",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "min-poses",
				Usage: "minimum number of pose pairs",
				Value: defaults.MinPoses,
			},
			&cli.Float64Flag{
				Name:  "max-condition-number",
				Usage: "largest acceptable condition number for the linear systems",
				Value: defaults.MaxConditionNumber,
			},
			&cli.Float64Flag{
				Name:  "min-motion-angle",
				Usage: "smallest informative relative rotation in radians",
				Value: defaults.MinMotionAngle,
			},
			&cli.Float64Flag{
				Name:  "orthonormality-tolerance",
				Usage: "largest acceptable rotation matrix orthonormality deviation",
				Value: defaults.OrthonormalityTolerance,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "emit the result as JSON instead of text",
			},
		},
		Action: func(c *cli.Context) error {
			return runCalibration(c, logger)
		},
	}
	return app.RunContext(ctx, args)
}

// poseFile is the on-disk format: each pose a 4x4 rigid transform flattened
// row major, the way the calibration backend stores them.
type poseFile struct {
	RobotPoses  [][]float64 `json:"robot_poses"`
	CameraPoses [][]float64 `json:"camera_poses"`
}

func runCalibration(c *cli.Context, logger golog.Logger) error {
	seq, err := readPoseSequence(c.String("poses"))
	if err != nil {
		return err
	}
	logger.Infow("loaded pose pairs", "count", len(seq), "file", c.String("poses"))

	engine := calibration.NewEngine(calibration.AlgorithmParameters{
		MinPoses:                c.Int("min-poses"),
		OrthonormalityTolerance: c.Float64("orthonormality-tolerance"),
		MinMotionAngle:          c.Float64("min-motion-angle"),
		MaxConditionNumber:      c.Float64("max-condition-number"),
	}, logger)

	res, err := engine.Calibrate(seq)
	if err != nil {
		return errors.Wrap(err, "calibration failed")
	}
	for _, ex := range res.Excluded {
		logger.Warnw("dropped motion pair", "sample", ex.Index, "angle_rad", ex.Angle)
	}

	if c.Bool("json") {
		return printJSON(res)
	}
	printText(res)
	return nil
}

func readPoseSequence(path string) (calibration.PoseSequence, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading pose file")
	}
	var pf poseFile
	if err := json.Unmarshal(raw, &pf); err != nil {
		return nil, errors.Wrap(err, "parsing pose file")
	}
	if len(pf.RobotPoses) != len(pf.CameraPoses) {
		return nil, errors.Errorf("pose count mismatch: %d robot poses vs %d camera poses",
			len(pf.RobotPoses), len(pf.CameraPoses))
	}

	seq := make(calibration.PoseSequence, len(pf.RobotPoses))
	for i := range pf.RobotPoses {
		robot, err := poseFromMatrix(pf.RobotPoses[i])
		if err != nil {
			return nil, errors.Wrapf(err, "robot pose %d", i)
		}
		camera, err := poseFromMatrix(pf.CameraPoses[i])
		if err != nil {
			return nil, errors.Wrapf(err, "camera pose %d", i)
		}
		seq[i] = calibration.PosePair{Robot: robot, Camera: camera}
	}
	return seq, nil
}

func poseFromMatrix(m []float64) (*spatialmath.Pose, error) {
	if len(m) != 16 {
		return nil, errors.Errorf("expected 16 elements for a 4x4 matrix, got %d", len(m))
	}
	rot, err := spatialmath.NewRotationMatrix([]float64{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	})
	if err != nil {
		return nil, err
	}
	return spatialmath.NewPose(r3.Vector{X: m[3], Y: m[7], Z: m[11]}, rot), nil
}

type jsonOutput struct {
	Rotation    []float64               `json:"rotation"`
	Translation []float64               `json:"translation"`
	Report      calibration.ErrorReport `json:"report"`
	PairsUsed   int                     `json:"pairs_used"`
	Excluded    []int                   `json:"excluded_samples"`

	RotationConditionNumber    float64 `json:"rotation_condition_number"`
	TranslationConditionNumber float64 `json:"translation_condition_number"`
}

func printJSON(res *calibration.Result) error {
	pt := res.HandEye.Point()
	out := jsonOutput{
		Rotation:                   res.HandEye.Rotation().Mat(),
		Translation:                []float64{pt.X, pt.Y, pt.Z},
		Report:                     res.Report,
		PairsUsed:                  res.PairsUsed,
		Excluded:                   make([]int, 0, len(res.Excluded)),
		RotationConditionNumber:    res.RotationConditionNumber,
		TranslationConditionNumber: res.TranslationConditionNumber,
	}
	for _, ex := range res.Excluded {
		out.Excluded = append(out.Excluded, ex.Index)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printText(res *calibration.Result) {
	rot := res.HandEye.Rotation()
	pt := res.HandEye.Point()
	fmt.Println("hand-eye transform (end effector -> camera):")
	for r := 0; r < 3; r++ {
		row := rot.Row(r)
		fmt.Printf("  [% .9f % .9f % .9f | % .6f]\n", row.X, row.Y, row.Z, []float64{pt.X, pt.Y, pt.Z}[r])
	}
	fmt.Printf("pairs used: %d (excluded %d)\n", res.PairsUsed, len(res.Excluded))
	fmt.Printf("rotation residual (rad):  mean %.3e  max %.3e  std %.3e\n",
		res.Report.Rotation.Mean, res.Report.Rotation.Max, res.Report.Rotation.StdDev)
	fmt.Printf("translation residual:     mean %.3e  max %.3e  std %.3e\n",
		res.Report.Translation.Mean, res.Report.Translation.Max, res.Report.Translation.StdDev)
	fmt.Printf("condition numbers:        rotation %.3e  translation %.3e\n",
		res.RotationConditionNumber, res.TranslationConditionNumber)
}
