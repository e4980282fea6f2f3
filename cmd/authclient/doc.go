// Command authclient logs in against a backend and sends authenticated
// requests from the terminal, keeping the credential between invocations.
//
//	authclient mock --mode header --user alice --password 'Str0ng!pass'
//	authclient login -u http://localhost:5000 --user alice --password 'Str0ng!pass'
//	authclient request -u http://localhost:5000 /protected
package main
