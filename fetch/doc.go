/*
Command fetch downloads photometry of a target from BHTOM into an epoch
archive for difphot.

Usage

  fetch [options] <target>     Download epochs of target.
  fetch -v                     Display version and copyright.

  Options:
    -days <n>                    Days back from now, default 365.
    -mjd <min,max>               MJD range, instead of -days.
    -o <archive>                 Default data/photometry_data.gob.
    -env <file>                  Default .env.
    -m <metrics-textfile>

Configuration

API settings are read from environment variables.  If the file named with
-env exists, variables in it are loaded first, without overriding variables
already set.

  BHTOM_API_TOKEN      required
  BHTOM_API_BASE_URL   default https://bh-tom2.astrolabs.pl/common/api/
  BHTOM_CSRF_TOKEN     sent as X-CSRFToken when set
  BHTOM_HTTP_TIMEOUT   per request, default 60s

Operation

Data products of the target within the MJD range are listed one page at a
time.  The source extraction catalog of each product is then downloaded, one
at a time.  Products listed without an MJD, products whose download fails
with an HTTP error status, and products with an empty catalog are skipped
with a warning.  Any other failure ends the run without writing the archive.
An interrupt cancels the run.

Output

An archive name ending in .db or .sqlite selects an SQLite database.  Each
run is added to the database under a new run id.  Any other name is written
as a gob file, replacing a previous one.
*/
package main
