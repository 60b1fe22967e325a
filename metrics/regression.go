// Package metrics compares ensemble scores with reference scores, such as the
// predictions the training system exported next to a model. A decoded model
// that reproduces its reference scores is safe to serve.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gbtree/pkg/errors"
)

// pair は入力を検証して2つのスライスに展開する
func pair(op string, yTrue, yPred mat.Vector) ([]float64, []float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, errors.Wrapf(errors.ErrEmptyData, "%s", op)
	}
	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError(op, n, yPred.Len())
	}
	return mat.Col(nil, 0, yTrue), mat.Col(nil, 0, yPred), nil
}

// residuals は yTrue - yPred を返す
func residuals(op string, yTrue, yPred mat.Vector) ([]float64, []float64, error) {
	t, p, err := pair(op, yTrue, yPred)
	if err != nil {
		return nil, nil, err
	}
	floats.Sub(t, p)
	return t, mat.Col(nil, 0, yTrue), nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	r, _, err := residuals("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Dot(r, r) / float64(len(r)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	r, _, err := residuals("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Norm(r, 1) / float64(len(r)), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	r, t, err := residuals("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	mean := floats.Sum(t) / float64(len(t))
	floats.AddConst(-mean, t)
	tss := floats.Dot(t, t)
	if tss == 0 {
		return 0, errors.NewValidationError("yTrue", "total sum of squares is zero", tss)
	}
	return 1 - floats.Dot(r, r)/tss, nil
}

// MaxAbsError は最大絶対誤差とその行番号を返す。
// 同値の場合は先頭の行を返す。NaN を含む行があればそれを最悪とみなす。
func MaxAbsError(yTrue, yPred mat.Vector) (float64, int, error) {
	r, _, err := residuals("MaxAbsError", yTrue, yPred)
	if err != nil {
		return 0, -1, err
	}
	for i, v := range r {
		if math.IsNaN(v) {
			return v, i, nil
		}
		r[i] = math.Abs(v)
	}
	row := floats.MaxIdx(r)
	return r[row], row, nil
}

// Reproduces は全ての行で |yTrue - yPred| <= tol であるかを判定する。
// 満たさない場合は最悪の行を示す ValidationError を返す。
func Reproduces(yTrue, yPred mat.Vector, tol float64) error {
	worst, row, err := MaxAbsError(yTrue, yPred)
	if err != nil {
		return err
	}
	if !(worst <= tol) {
		return errors.Wrapf(
			errors.NewValidationError("yPred", "score deviates from reference beyond tolerance", worst),
			"row %d", row)
	}
	return nil
}
