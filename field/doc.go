/*
Command field charts the detections of one archived epoch around the target
and comparison stars.

  Usage: field [options]
    -d string
          epoch archive (default "data/photometry_data.gob")
    -e int
          data id of the epoch to chart, default the first
    -f string
          band
    -o string
          objects file (default "objects.dat")
    -out string
          output file (default "plots/field.png")
    -r float
          match radius, arc seconds (default 5)
    -v    display version and copyright

Detections are plotted in arc second offsets from the target on the tangent
plane, north up and east left.  Circles of the match radius mark the objects
file positions, red for the target and blue for comparison stars.  The match
found for each position is logged.

The chart is a quick check that the objects file positions fall on the
intended sources.
*/
package main
