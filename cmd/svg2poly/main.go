package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"log"
	"os"

	"pixelvec/pkg/geometry"
	"pixelvec/pkg/polygon"
	"pixelvec/pkg/svgxml"
)

var (
	inFile    = flag.String("in", "", "input SVG file")
	outFile   = flag.String("out", "", "output file (default stdout)")
	format    = flag.String("format", "svg", "output format: svg or geojson")
	tolerance = flag.Float64("tolerance", 0.5, "max distance between a curve and its approximation")
	angle     = flag.Float64("angle", 0, "angle tolerance in radians; 0 disables the angle condition")
	cusp      = flag.Float64("cusp", 0, "cusp limit in radians; 0 disables the cusp limit")
	depth     = flag.Int("depth", 32, "max subdivision recursion depth")
	join      = flag.Float64("join", 0, "join open paths whose endpoints are within this distance")
	simplify  = flag.Float64("simplify", 0, "simplify output polylines with this tolerance")
)

func main() {
	flag.Parse()
	if *inFile == "" {
		fmt.Fprintf(os.Stderr, "usage: %s -in drawing.svg [-out out.svg] [-format svg|geojson]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	data, err := os.ReadFile(*inFile)
	if err != nil {
		log.Fatalf("file read error: %s", err)
	}
	svg, err := svgxml.Parse(data)
	if err != nil {
		log.Fatalf("parse error: %s", err)
	}
	drawables, err := svg.Drawables()
	if err != nil {
		log.Fatalf("parse error: %s", err)
	}

	cfg := polygon.Config{
		Flatten: geometry.FlattenConfig{
			DistanceTolerance: *tolerance,
			AngleTolerance:    *angle,
			CuspLimit:         *cusp,
			RecursionLimit:    *depth,
		},
		JoinDistance:      *join,
		SimplifyTolerance: *simplify,
	}

	var paths []polygon.Path
	for _, drawable := range drawables {
		path, err := polygon.FromDrawable(drawable, cfg)
		if err != nil {
			// One bad element should not take down the whole drawing.
			log.Printf("skipping %s element: %s", drawable.Node.XMLName.Local, err)
			continue
		}
		paths = append(paths, path)
	}

	var out []byte
	switch *format {
	case "svg":
		out, err = polygon.ToSVG(paths).Marshal()
		out = append([]byte(xml.Header), out...)
	case "geojson":
		out, err = polygon.ToGeoJSON(paths).MarshalJSON()
	default:
		log.Fatalf("unknown format %q", *format)
	}
	if err != nil {
		log.Fatalf("marshal error: %s", err)
	}
	out = append(out, '\n')

	if *outFile == "" {
		os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(*outFile, out, 0644); err != nil {
		log.Fatalf("file write error: %s", err)
	}
}
