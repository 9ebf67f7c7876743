package calculator

import "QuantSuite/internal/model"

// Compute runs every indicator over bars. Indicators without enough history
// come back as Insufficient readings; the others are still computed.
func Compute(bars []model.OHLCV, w model.Windows) model.IndicatorSnapshot {
	closes := model.Closes(bars)
	volumes := model.Volumes(bars)

	snap := model.IndicatorSnapshot{Windows: w, LastClose: model.Insufficient()}
	if len(closes) > 0 {
		snap.LastClose = model.OK(closes[len(closes)-1])
	}

	snap.SMAFast = reading(SMA(closes, w.SMAFast))
	snap.SMASlow = reading(SMA(closes, w.SMASlow))
	snap.EMAFast = reading(EMA(closes, w.EMAFast))
	snap.EMASlow = reading(EMA(closes, w.EMASlow))
	snap.RSI = reading(RSI(closes, w.RSIPeriod))

	if line, sig, err := MACD(closes); err != nil {
		snap.MACD, snap.MACDSignal = model.Insufficient(), model.Insufficient()
	} else {
		snap.MACD, snap.MACDSignal = model.OK(line), model.OK(sig)
	}

	if sup, res, err := SupportResistance(closes, w.SRWindow); err != nil {
		snap.Support, snap.Resistance = model.Insufficient(), model.Insufficient()
	} else {
		snap.Support, snap.Resistance = model.OK(sup), model.OK(res)
	}

	if vc, err := RelativeVolume(volumes, w.VolumeWindow); err != nil {
		snap.LastVolume, snap.AvgVolume, snap.RelVolume = model.Insufficient(), model.Insufficient(), model.Insufficient()
	} else {
		snap.LastVolume, snap.AvgVolume, snap.RelVolume = model.OK(vc.Last), model.OK(vc.Avg), vc.Ratio
	}

	return snap
}

func reading(v float64, err error) model.Reading {
	if err != nil {
		return model.Insufficient()
	}
	return model.OK(v)
}
