package audio

import (
	"encoding/binary"
	"math"
)

func int16ToFloat(v int16) float32 {
	return float32(v) / 32768
}

// convert s16le bytes to []int for IntBuffer
func pcmToIntSlice(pcm []byte) []int {
	result := make([]int, len(pcm)/2)
	for i := range result {
		result[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	return result
}

func pcmToFloatSlice(pcm []byte) []float32 {
	result := make([]float32, len(pcm)/2)
	for i := range result {
		result[i] = int16ToFloat(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	return result
}

// convert [-1, 1] floats to 16-bit ints, clipping out of range samples
func floatToIntSlice(samples []float32) []int {
	result := make([]int, len(samples))
	for i, s := range samples {
		result[i] = int(math.Round(clamp(float64(s)) * math.MaxInt16))
	}
	return result
}
