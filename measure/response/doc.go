// Package response measures the frequency response of stream kernels.
//
// The analyzer drives a kernel with a unit impulse, captures the impulse
// response, and derives magnitude spectra from it. Results are plain
// float64 slices per channel over bins 0..fftSize/2, ready for plotting or
// further analysis by callers.
//
// # Usage
//
//	an := response.NewAnalyzer(48000)
//	mag, err := an.MagnitudeDB(stream.Gain{Level: 0.5}, 1, 1024)
//	fmt.Printf("%.1f dB at %.0f Hz\n", mag[0][10], an.BinFrequency(10, 1024))
package response
