package hardware

// Register addresses for the TLV320AIC3204, grouped by page. Only the
// registers touched by this driver are named; everything else is reachable
// through the raw register access path.
const (
	// PageSelect is register 0x00 on every page. Writing the page number
	// here switches the active register bank.
	PageSelect Register = 0x00

	// Page 0 — clocking, DAC/ADC digital paths.
	RegSoftReset Register = 0x01 // write 0x01 to reset
	RegClkNDAC   Register = 0x0B // NDAC divider, bit 7 = powered
	RegClkMDAC   Register = 0x0C // MDAC divider
	RegClkNADC   Register = 0x12 // NADC divider
	RegClkMADC   Register = 0x13 // MADC divider
	RegClkCDIV   Register = 0x19 // CDIV_CLKIN source select
	RegClkout    Register = 0x1A // CLKOUT divider
	RegGPIOCtl   Register = 0x34 // GPIO/MFP function (page 0)
	RegDACSetup  Register = 0x3F // DAC channel power/routing
	RegDACMute   Register = 0x40 // DAC digital mute
	RegDACLVol   Register = 0x41 // left DAC digital volume
	RegDACRVol   Register = 0x42 // right DAC digital volume
	RegADCSetup  Register = 0x51 // ADC channel power
	RegADCFine   Register = 0x52 // ADC fine gain / mute
	RegADCLVol   Register = 0x53 // left ADC digital volume
	RegADCRVol   Register = 0x54 // right ADC digital volume

	// Page 1 — analog power, routing, output drivers.
	RegPwrCfg    Register = 0x01 // weak AVDD disable
	RegLDOCtl    Register = 0x02 // AVDD LDO / master analog power
	RegOutPwr    Register = 0x09 // HPL/HPR/LOL/LOR driver power
	RegHPLRoute  Register = 0x0C // LDAC → HPL routing
	RegHPRRoute  Register = 0x0D // RDAC → HPR routing
	RegLOLRoute  Register = 0x0E // LDAC → LOL routing
	RegLORRoute  Register = 0x0F // RDAC → LOR routing
	RegHPLGain   Register = 0x10 // HPL driver gain, bit 6 = mute
	RegHPRGain   Register = 0x11 // HPR driver gain
	RegLOLGain   Register = 0x12 // LOL driver gain
	RegLORGain   Register = 0x13 // LOR driver gain
	RegDePop     Register = 0x14 // headphone de-pop timing
	RegMicBias   Register = 0x21 // MICBIAS control
	RegMicPGAL   Register = 0x3B // left MICPGA volume
	RegMicPGAR   Register = 0x3C // right MICPGA volume
	RegRefCharge Register = 0x7B // reference charging time
)

// Headphone/line driver gain field (page 1, 0x10-0x13).
// Bit 6 is the mute flag; bits 5-0 encode gain in 0.5dB steps:
// 0x00 = 0dB, 0x1D = +29dB (max), 0x3A = -6dB (min, not a mute substitute).
const (
	HPMuteBit  byte = 0x40
	HPGainMask byte = 0x3F
	hpGainMin  byte = 0x3A // -6dB
	hpGainMid  byte = 0x14 // +20dB
	hpGainMax  byte = 0x1D // +29dB
)

// DAC digital volume (page 0, 0x41/0x42). 0x00 = 0dB,
// 0x01-0x30 = +0.5..+24dB, 0xFF..0x81 = -0.5..-63.5dB.
const (
	dacLowTier  byte = 0xA0 // extra attenuation used by the 1-20% tier
	dacBoostMin byte = 0x04 // +2dB
	dacBoostMax byte = 0x10 // +8dB
)

// ADC digital volume (page 0, 0x53/0x54). 0x00 = 0dB. The attenuation range
// bottoms out at 0x68 (-12dB) and deliberately stops at 0x29 so it never
// overlaps the 0x00-0x28 (0..+20dB) range; readback stays unambiguous.
const (
	adcAttFloor byte = 0x68 // -12dB
	adcAttCeil  byte = 0x29 // just below 0dB
	adcBoostMax byte = 0x28 // +20dB
)

// ClampPercent saturates a percentage to [0, 100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// EncodeVolume maps a volume percentage to the headphone/line driver gain
// byte and the DAC digital volume byte. The curve is tiered so perceived
// loudness rises monotonically:
//
//	0       mute bit set, DAC at 0dB
//	1-20    HP -6dB → 0dB, DAC held at heavy attenuation
//	21-60   HP 0dB → +20dB, DAC at 0dB
//	61-90   HP +20dB → +29dB, DAC at 0dB
//	91-100  HP held at +29dB, DAC boost +2dB → +8dB
//
// Interior steps use integer floor division; quantization at tier
// boundaries is expected.
func EncodeVolume(percent int) (hp, dac byte) {
	percent = ClampPercent(percent)

	if percent == 0 {
		return HPMuteBit, 0x00
	}

	switch {
	case percent <= 20:
		hp = hpGainMin - byte((percent-1)*int(hpGainMin)/19)
		dac = dacLowTier
	case percent <= 60:
		hp = byte((percent - 21) * int(hpGainMid) / 39)
		dac = 0x00
	case percent <= 90:
		hp = hpGainMid + byte((percent-61)*int(hpGainMax-hpGainMid)/29)
		dac = 0x00
	default:
		hp = hpGainMax
		dac = dacBoostMin + byte((percent-91)*int(dacBoostMax-dacBoostMin)/9)
	}
	return hp, dac
}

// DecodeVolume estimates the volume percentage from the headphone gain and
// DAC volume bytes. The forward mapping is not injective at tier boundaries,
// so the tiers are checked in a fixed priority order; the estimate can be
// off by a few percent but never lands in the wrong tier. A set mute bit
// always decodes to 0.
func DecodeVolume(hp, dac byte) int {
	if hp&HPMuteBit != 0 {
		return 0
	}
	gain := hp & HPGainMask

	var volume int
	switch {
	case dac >= dacBoostMin && dac <= dacBoostMax:
		// DAC boost band only appears in the top tier.
		volume = 91 + int(dac-dacBoostMin)*9/int(dacBoostMax-dacBoostMin)
	case gain >= hpGainMid && gain <= hpGainMax:
		volume = 61 + int(gain-hpGainMid)*29/int(hpGainMax-hpGainMid)
		if volume > 90 {
			volume = 90 // no boost observed, cap below the top tier
		}
	case gain <= hpGainMid && dac == 0x00:
		volume = 21 + int(gain)*39/int(hpGainMid)
	case gain <= hpGainMin && dac == dacLowTier:
		volume = 1 + int(hpGainMin-gain)*19/int(hpGainMin)
	default:
		// Registers were set out-of-band; best guess from the HP gain alone.
		switch {
		case gain == 0x00:
			volume = 21
		case gain <= hpGainMid:
			volume = 21 + int(gain)*39/int(hpGainMid)
		case gain <= hpGainMax:
			volume = 61 + int(gain-hpGainMid)*29/int(hpGainMax-hpGainMid)
		default:
			volume = 20
		}
	}

	if volume > 100 {
		volume = 100
	}
	return volume
}

// EncodeGain maps an input gain percentage to the ADC digital volume byte.
// 0-19% covers -12dB up to just below 0dB (0x68 down to 0x29); 20-100%
// covers 0dB to +20dB (0x00 to 0x28). The two ranges are disjoint by
// construction so DecodeGain can tell them apart.
func EncodeGain(percent int) byte {
	percent = ClampPercent(percent)
	if percent < 20 {
		return adcAttFloor - byte(percent*int(adcAttFloor-adcAttCeil)/19)
	}
	return byte((percent - 20) * int(adcBoostMax) / 80)
}

// DecodeGain estimates the input gain percentage from the ADC volume byte.
// Bit 7 is reserved and masked off before interpretation.
func DecodeGain(adc byte) int {
	adc &= 0x7F
	switch {
	case adc >= adcAttFloor:
		return 0
	case adc <= adcBoostMax:
		return 20 + int(adc)*80/int(adcBoostMax)
	default:
		return int(adcAttFloor-adc) * 19 / int(adcAttFloor-adcAttCeil)
	}
}
