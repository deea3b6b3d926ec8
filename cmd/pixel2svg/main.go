package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"pixelvec/pkg/trace"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

var (
	inFile  = flag.String("in", "", "input image (png, jpeg, gif, tiff, bmp)")
	outFile = flag.String("out", "", "output SVG file (default stdout)")
	upscale = flag.Int("upscale", 1, "integer upscale factor applied before tracing")
)

func main() {
	flag.Parse()
	if *inFile == "" {
		fmt.Fprintf(os.Stderr, "usage: %s -in image.png [-out image.svg] [-upscale n]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	img, err := imaging.Open(*inFile)
	if err != nil {
		log.Fatalf("image read error: %s", err)
	}
	if *upscale > 1 {
		img = upscaleImage(img, *upscale)
	}

	doc := trace.ToSVG(img)
	data, err := doc.Marshal()
	if err != nil {
		log.Fatalf("marshal error: %s", err)
	}
	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')

	if *outFile == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*outFile, data, 0644); err != nil {
		log.Fatalf("file write error: %s", err)
	}
}

// upscaleImage scales by an integer factor with nearest-neighbor sampling
// so pixel edges stay sharp.
func upscaleImage(img image.Image, factor int) image.Image {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}
