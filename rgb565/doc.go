// Package rgb565 provides a 16-bit RGB565 image format for color TFT display controllers.
//
// RGB565 packs a color in 16 bits: 5 bits of red, 6 bits of green and 5 bits of blue.
// Controllers such as the ILI9341 expect each pixel as two bytes, most significant byte first.
//
// Memory layout example for a 2-pixel row:
//
//	Pixels: 0       1
//	Values: 0xF800  0x001F
//	Bytes:  F8 00   00 1F
//
// This package provides:
//
// - Color: a packed RGB565 value
// - Model: a color model for converting standard Go colors to Color
// - Image: a draw.Image implementation storing pixels in controller byte order
//
// Example usage:
//
//	// Create a 320x240 image
//	img := rgb565.NewImage(image.Rect(0, 0, 320, 240))
//
//	// Set a pixel to pure red
//	img.SetRGB565(10, 20, rgb565.Color(0xF800))
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
package rgb565
