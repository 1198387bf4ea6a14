/*
Command compare plots difphot results against AstroImageJ photometry of the
same images.

  Usage: compare [options] <results.csv> <aij-measurements>
    -c2 string
          AstroImageJ first comparison star column (default "rel_flux_C2")
    -c3 string
          AstroImageJ second comparison star column (default "rel_flux_C3")
    -o string
          output file (default "plots/photometry_comparison.png")
    -t float
          pairing window, seconds (default 180)
    -t1 string
          AstroImageJ target column (default "rel_flux_T1")
    -v    display version and copyright

The AstroImageJ measurement table is tab delimited with a header line and a
JD_UTC column.  Each results row is paired with the AstroImageJ row closest
in time, if within the pairing window.  Rows where either comparison star is
missing are not compared.

AstroImageJ relative fluxes are converted to differential magnitudes,
-2.5 log10(T1/C2) and so on.  The plot shows both light curves and the
residual, AstroImageJ minus difphot, of each of the three series.
*/
package main
