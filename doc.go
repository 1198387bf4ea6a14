/*
Command difphot computes differential photometry of a fixed target against
comparison stars from source extraction catalogs served by BHTOM.

Contents

Version 1.0

  Program overview
  Commands
  Command line usage
  Configuring file locations
  File formats
  Algorithm outline


Program overview

A target, typically a variable star or transient, is imaged repeatedly.
Each image is reduced by the BHTOM service to a catalog of detected sources
with positions and instrumental magnitudes.  Instrumental magnitudes vary
from image to image with transparency, airmass, and exposure, but a
difference of magnitudes between the target and a nearby comparison star
measured on the same image largely cancels these effects.  The series of
differences over time is the light curve.

Sample run:

  fetch -days 30 "Gaia24abc"
  difphot -f GaiaSP/g

Output is output/photometry_results.csv, plots/magnitude_ratios.png, and
plots/lightcurve.html.  Progress and data quality warnings are logged.


Commands

  fetch     download epochs from BHTOM into an archive
  difphot   match epochs against the objects file, write results
  convert   write results as diffmag, flux, or relative flux tables
  compare   plot results against an AstroImageJ measurement table
  field     chart detections of one epoch around the target

Each is documented with go doc.  They communicate only through files.


Command line usage

  Usage: difphot [options]    compute differential photometry
         difphot -h           display help and quick reference
         difphot -v           display version and copyright

  Options:
       -c <config-file>
       -d <epoch-archive>
       -f <band>
       -m <metrics-textfile>
       -o <objects-file>
       -p <path>
       -r <match-radius-arcsec>
       -s <stability-threshold-mag>
       -ylim-sigma <k>

-f selects epochs of one band, compared without regard to case.  If no
epochs are in the band, the run terminates listing the bands present.

-r is the maximum separation in arc seconds between a catalog position and
a detection, default 5.  -s is the comparison star stability threshold in
magnitudes, default 0.05.  -ylim-sigma sets light curve plot y limits at
the median plus and minus this many standard deviations, default 3.

-m writes run metrics in the Prometheus text format to the named file, for
collection by a node exporter textfile collector.

Command line options take precedence over the configuration file.


Configuring file locations

	File                           Command line option
	difphot.config                 -c
	objects.dat                    -o
	data/photometry_data.gob       -d

Default names are joined to the path given with -p, default the current
directory.  A path given with -c, -o, or -d is used as is.  Output files
are always written under -p.

A configuration file is required to be present if -c is used.


File formats

objects.dat holds one position per line: name, right ascension, and
declination, the angles in decimal degrees, separated by commas or white
space.  Empty lines and lines beginning with # are ignored.  One entry must
be named target.  Others are comparison stars, conventionally comp1, comp2,
and so on, and at least one is required.  Names are not case sensitive.

  target, 281.2034, -4.5542
  comp1,  281.2107, -4.5480
  comp2,  281.1931, -4.5611

The epoch archive is written by fetch.  A name ending in .db or .sqlite
selects an SQLite database which accumulates download runs; difphot reads
the most recent run.  Any other name is a gob file holding a single run.

difphot.config, the optional configuration file, is a text file with a simple
format.  Empty lines and lines beginning with # are ignored.  Other lines
hold a keyword or a keyword = value setting.

   band = <band>
   radius = <arcsec>
   sigma = <k>
   stability = <mag>
   errfloor = <mag>
   errfloor <band> = <mag>
   plots
   noplots
   html
   nohtml
   verbose
   quiet

Errfloor sets a minimum magnitude error, either for all bands or for a
named band.  Verbose logs each match.

The results CSV has a header line

  MJD,TARGET_RA,TARGET_DEC,TARGET_SEP,TARGET_MAG,TARGET_MAGERR,COMP1_MAG,COMP1_MAGERR,...

and a line per epoch.  TARGET_RA and TARGET_DEC are the measured target
position, TARGET_SEP its separation from the objects file position in arc
seconds.  Cells of comparison stars not matched in an epoch are empty.


Algorithm outline

1.  Epochs are sorted by time.  For each epoch, each catalog position is
matched to the nearest detection within the match radius.  Detections with
impossible coordinates are ignored.  Of detections at identical separation
the first listed wins.

2.  An epoch is kept if the target is matched with a finite magnitude and
error, and at least one comparison star is.  Other epochs are logged and
dropped.

3.  For each comparison star, target minus comparison magnitude is computed
where both are matched.  Errors add in quadrature.  No values are
interpolated between epochs.

4.  Where two or more comparison stars are present, comp1 minus comp2 is
checked against its median.  Epochs departing by more than the stability
threshold are logged.  This does not change the results.

5.  As further checks, the scatter of measured target positions about a
great circle fit is logged, as are epochs where the target was within 30
degrees of the sun.
-------------
Public domain.
*/
package main
