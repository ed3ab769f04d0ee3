// Copyright 2026 hue-sheets authors. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package hue-sheets records the temperature sensor readings from a Philips Hue gateway in a Google Sheets worksheet.

hue-sheets can be used from the command line but is really intended to be run from a cron job, appending one row
per temperature sensor to the worksheet on each run.

hue-sheets supports the following commands:

  - poll, (the default) to append the current temperature readings to the worksheet
  - authorise, to authorise application access to the Google Sheets worksheet
  - get, to download the recorded readings as a TSV file
  - version, to display the current version
*/
package sheets
