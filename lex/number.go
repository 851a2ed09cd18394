package lex

import "github.com/wyrmlang/wyrmcore/cell"

// locateNumber disambiguates the number family: +12.3e-4 is DECIMAL
// (period + E present), 1.2.3 is TUPLE, 1x2 is PAIR, 12:34:56 is TIME,
// 10% is PERCENT. Order matters: more specific suffixes/infixes are
// checked before falling back to plain INTEGER.
func locateNumber(text []byte, fp fingerprint) (cell.Kind, bool) {
	if text[len(text)-1] == '%' {
		return cell.KindPercent, true
	}
	if fp.has(fpX) {
		return cell.KindPair, true
	}
	if fp.has(fpColon) {
		return cell.KindTime, true
	}
	if fp.has(fpDot) {
		if countByte(text, '.') >= 2 {
			return cell.KindTuple, true
		}
		return cell.KindDecimal, true
	}
	if fp.has(fpDollar) || text[0] == '$' {
		return cell.KindMoney, true
	}
	return cell.KindInteger, true
}

func countByte(b []byte, target byte) int {
	n := 0
	for _, c := range b {
		if c == target {
			n++
		}
	}
	return n
}
