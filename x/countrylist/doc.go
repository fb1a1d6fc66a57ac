/*
Package countrylist keeps jurisdiction banlists.

A banlist is owned by an admin and holds two letter upper case country
codes. Codes can only be added, a ban is never lifted. Other extensions
consult a banlist through the Controller, usually once when a record is
created.
*/
package countrylist
