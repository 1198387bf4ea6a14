/*
Command convert writes difphot results in the light curve formats of other
photometry tools.

  Usage: convert [options] [input]
    -comp int
          comparison star number for diffmag (default 1)
    -o string
          output file
    -to string
          output format: diffmag, flux, or relflux (default "diffmag")
    -v    display version and copyright
    -zp float
          magnitude zero point for flux

Formats

diffmag reads the results CSV, default output/photometry_results.csv, and
writes target minus comparison star magnitudes, default
output/photometry_results_diffmag.dat:

  #JD_UTC	diff_mag	error_diff_mag
  2460000.5000000000	0.624000	0.005000

Only epochs where the comparison star matched are written.  Errors are the
quadrature sum of target and comparison star errors.  If the input is not a
.csv file it is read as a relative flux table and converted back.

flux reads the results CSV and writes flux 10^(-0.4(m - zp)), default
output/photometry_results_flux.csv, with comparison star fluxes and the
target position.  A three column table of JD, flux, and error is written
beside it with the suffix _simple.dat.

relflux reads a diffmag table, default output/photometry_results_diffmag.dat,
and writes the target to comparison star flux ratio, default
output/photometry_results_relflux.dat.
*/
package main
